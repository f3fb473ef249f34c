package aggregator

import (
	"fmt"
	"sync"
)

type toolRef struct {
	serverName   string
	originalName string
}

// NameTracker tracks tool name conflicts across servers
type NameTracker struct {
	// Map of tool name -> list of servers that have this tool
	toolToServers map[string][]string
	// Map of exposed name -> (server, original name)
	nameMapping map[string]toolRef
	mu          sync.RWMutex
}

// NewNameTracker creates a new name tracker
func NewNameTracker() *NameTracker {
	return &NameTracker{
		toolToServers: make(map[string][]string),
		nameMapping:   make(map[string]toolRef),
	}
}

// RebuildMappings rebuilds the name mappings from the tools of every server.
// serverOrder fixes the order servers are visited in.
func (nt *NameTracker) RebuildMappings(serverOrder []string, servers map[string]*ServerInfo) {
	nt.mu.Lock()
	defer nt.mu.Unlock()

	nt.toolToServers = make(map[string][]string)
	nt.nameMapping = make(map[string]toolRef)

	for _, serverName := range serverOrder {
		info, ok := servers[serverName]
		if !ok {
			continue
		}
		for _, tool := range info.Tools {
			nt.toolToServers[tool.Name] = append(nt.toolToServers[tool.Name], serverName)
		}
	}

	for toolName, serverList := range nt.toolToServers {
		if len(serverList) == 1 {
			// No conflict - use original name
			nt.nameMapping[toolName] = toolRef{serverName: serverList[0], originalName: toolName}
			continue
		}
		// Conflict - prefix with server name
		for _, serverName := range serverList {
			nt.nameMapping[prefixed(serverName, toolName)] = toolRef{serverName: serverName, originalName: toolName}
		}
	}
}

// GetExposedToolName returns the name to expose for a tool (with or without prefix)
func (nt *NameTracker) GetExposedToolName(serverName, toolName string) string {
	nt.mu.RLock()
	defer nt.mu.RUnlock()

	servers := nt.toolToServers[toolName]
	if len(servers) <= 1 {
		return toolName
	}
	return prefixed(serverName, toolName)
}

// ResolveName resolves an exposed name to server and original name
func (nt *NameTracker) ResolveName(exposedName string) (serverName, originalName string, err error) {
	nt.mu.RLock()
	defer nt.mu.RUnlock()

	mapping, exists := nt.nameMapping[exposedName]
	if !exists {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownTool, exposedName)
	}

	return mapping.serverName, mapping.originalName, nil
}

func prefixed(serverName, toolName string) string {
	return fmt.Sprintf("%s.%s", serverName, toolName)
}
