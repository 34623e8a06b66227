// Package config loads and validates Lockmap Core configuration.
//
// Configuration comes from a YAML file, with LOCKMAP_* environment
// variables overriding individual values. Secrets (the shared login
// password, JWT secret, broker credentials, InfluxDB token) belong in
// the environment, not the file. Loading happens once at startup;
// Validate rejects configs the rest of the system cannot run with.
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
package config
