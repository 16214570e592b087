// Package config provides configuration parsing for hashroute.
//
// The configuration is stored in hashroute.json in the project directory.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "urlRoot": "cockpit",
//	  "server": {
//	    "address": ":8080",
//	    "allowedOrigins": ["https://example.com"],
//	    "shutdownTimeout": "10s"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "hashroute"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "hashroute"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Address:", cfg.Server.Address)
package config
