// Package config loads the normbot startup configuration.
//
// The configuration file is a JSON document (YAML is accepted as well, since
// it is parsed with a YAML decoder) describing the MCP tool servers to launch
// and, optionally, the LLM, agent and history settings.
//
// # Resolution Order
//
// The file path is resolved in the following order:
//
//  1. An explicit path (the --config flag)
//  2. The CONFIG environment variable
//  3. config.json next to the normbot executable
//  4. config.json in the current working directory
//
// A warning is logged whenever the CONFIG variable is not set and a fallback
// location is used.
//
// # Configuration Structure
//
//	{
//	  "mcpServers": {
//	    "mysql": {
//	      "command": "uvx",
//	      "args": ["mysql-mcp-server"],
//	      "env": {"MYSQL_HOST": "127.0.0.1"}
//	    }
//	  },
//	  "llm": {"model": "gemini-2.0-flash", "temperature": 0, "maxRetries": 3},
//	  "agent": {"maxIterations": 8},
//	  "history": {"path": "normbot.db"}
//	}
//
// Only mcpServers is required. A configuration without servers, or with a
// server missing its command, is rejected by Validate.
package config
