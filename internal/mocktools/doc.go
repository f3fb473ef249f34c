// Package mocktools serves MCP tool servers whose tools return canned
// responses described in a YAML scenario.
//
// A scenario lists tools with their input schema and an ordered set of
// responses. The first response whose condition matches the call arguments
// is returned; a response without condition is the fallback. Response text is
// a Go template rendered with the call arguments:
//
//	name: k8s
//	tools:
//	  - name: scale_deployment
//	    description: Scale a deployment
//	    inputSchema:
//	      type: object
//	      properties:
//	        replicas: {type: integer}
//	    responses:
//	      - condition: {replicas: 0}
//	        error: refusing to scale to zero
//	      - response: "deployment scaled to {{ .replicas }} replicas"
//
// Servers run over stdio (normbot mock-server) or in-process, which is how
// the tests exercise the real MCP client path without subprocesses.
package mocktools
