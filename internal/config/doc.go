// Package config loads guise.json, the project configuration of the guise
// CLI. guise.yaml is accepted as an alternative.
//
// # Configuration File Structure
//
//	{
//	  "name": "todo",
//	  "inspect": {
//	    "addr": "localhost:7070",
//	    "historySize": 256,
//	    "allowedOrigins": ["http://localhost:5173"]
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "guise"
//	  },
//	  "archive": {
//	    "enabled": true,
//	    "bucket": "my-snapshots",
//	    "prefix": "guise/commits",
//	    "region": "eu-west-1"
//	  },
//	  "demo": {
//	    "todos": 3,
//	    "clicks": 5
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
