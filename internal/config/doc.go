// Package config provides configuration parsing for vtree.
//
// The configuration is stored in vtree.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "diff": {
//	    "handlerIdentity": false
//	  },
//	  "render": {
//	    "recovery": "remount",
//	    "supportedTags": ["div", "span", "p"]
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 7070,
//	    "path": "/ws",
//	    "writeTimeout": "10s",
//	    "metrics": true
//	  },
//	  "snapshot": {
//	    "bucket": "golden-trees",
//	    "prefix": "ui/",
//	    "region": "eu-west-1"
//	  },
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.ServerAddress())
package config
