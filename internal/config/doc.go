// Package config loads pageglue.json.
//
// A missing file is not an error: Load returns the defaults. Environment
// variables PAGEGLUE_HOST, PAGEGLUE_PORT and PAGEGLUE_LOG_LEVEL override
// the file.
//
// # Configuration File Structure
//
//	{
//	  "notify": {
//	    "timeout": "5s",
//	    "fade": "150ms",
//	    "containerId": "alert-container"
//	  },
//	  "request": {
//	    "baseUrl": "http://localhost:8080",
//	    "headers": {"Authorization": "Bearer token"}
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "title": "Items",
//	    "items": ["alpha", "beta"]
//	  },
//	  "log": {
//	    "level": "info",
//	    "color": true
//	  }
//	}
//
// A notify timeout of "0s" disables auto-dismiss.
package config
