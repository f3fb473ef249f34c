package mocktools

import (
	"bytes"
	"fmt"
	"reflect"
	"text/template"
	"time"

	"normbot/pkg/logging"
)

// toolHandler handles calls to a specific mock tool
type toolHandler struct {
	config ToolConfig
}

// handleCall processes a tool call and returns the rendered response text.
// A configured error is returned as isError=true with the error text.
func (h *toolHandler) handleCall(parameters map[string]interface{}) (text string, isError bool, err error) {
	// Find matching response based on conditions
	var selected *ToolResponse
	for i := range h.config.Responses {
		response := &h.config.Responses[i]
		if matchesCondition(response.Condition, parameters) {
			selected = response
			break
		}
	}

	// If no conditional response matched, use fallback (response with no condition)
	if selected == nil {
		for i := range h.config.Responses {
			response := &h.config.Responses[i]
			if len(response.Condition) == 0 {
				selected = response
				break
			}
		}
	}

	if selected == nil {
		return "", false, fmt.Errorf("no matching response found for tool '%s' with parameters: %v", h.config.Name, parameters)
	}

	if selected.Delay != "" {
		delay, parseErr := time.ParseDuration(selected.Delay)
		if parseErr != nil {
			logging.Warn("MockServer", "Invalid delay format '%s' for tool %s, ignoring", selected.Delay, h.config.Name)
		} else {
			time.Sleep(delay)
		}
	}

	if selected.Error != "" {
		rendered, renderErr := render(selected.Error, parameters)
		if renderErr != nil {
			return "", false, renderErr
		}
		return rendered, true, nil
	}

	rendered, err := render(selected.Response, parameters)
	if err != nil {
		return "", false, fmt.Errorf("template processing failed for tool '%s': %w", h.config.Name, err)
	}
	return rendered, false, nil
}

func render(text string, parameters map[string]interface{}) (string, error) {
	tmpl, err := template.New("response").Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, parameters); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// matchesCondition checks if the given parameters match the condition
func matchesCondition(condition map[string]interface{}, parameters map[string]interface{}) bool {
	if len(condition) == 0 {
		return false // Empty condition doesn't match (it's a fallback)
	}

	for key, expectedValue := range condition {
		actualValue, exists := parameters[key]
		if !exists {
			return false
		}
		if !valuesEqual(expectedValue, actualValue) {
			return false
		}
	}
	return true
}

// valuesEqual compares two values for equality, handling type conversions
// such as YAML ints against JSON float64 arguments.
func valuesEqual(expected, actual interface{}) bool {
	if reflect.DeepEqual(expected, actual) {
		return true
	}
	return fmt.Sprintf("%v", expected) == fmt.Sprintf("%v", actual)
}
