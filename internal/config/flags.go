// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags defines the node flags on fs and parses args.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-node node id
//	-d database DSN
//	-db-driver database driver (postgres|sqlite)
//	-logs-dir append-only log directory
//	-artifacts-dir artifact directory (file backend)
//	-key signing key file
//	-registry node registry YAML file
//	-insurer insurer base URL
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-log-level log level
//	-c/-config json file path with configs
func parseFlags(fs *flag.FlagSet, args []string) (*StructuredConfig, error) {
	var (
		serverAddress  NetAddress
		nodeID         string
		databaseDSN    string
		databaseDriver string
		logsDir        string
		artifactsDir   string
		keyFile        string
		registryFile   string
		insurerURL     string
		requestTimeout time.Duration
		logLevel       string
		jsonConfigPath string
	)

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&nodeID, "node", "", "Node id")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&databaseDriver, "db-driver", "", "Database driver (postgres|sqlite)")
	fs.StringVar(&logsDir, "logs-dir", "", "Append-only log directory")
	fs.StringVar(&artifactsDir, "artifacts-dir", "", "Artifact directory")
	fs.StringVar(&keyFile, "key", "", "Signing key file")
	fs.StringVar(&registryFile, "registry", "", "Node registry YAML file")
	fs.StringVar(&insurerURL, "insurer", "", "Insurer base URL")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			NodeID:   nodeID,
			LogLevel: logLevel,
		},
		Storage: Storage{
			DB: DB{
				Driver: databaseDriver,
				DSN:    databaseDSN,
			},
			Logs: Logs{
				Dir: logsDir,
			},
			Artifacts: Artifacts{
				Dir: artifactsDir,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Signing: Signing{
			KeyFile: keyFile,
		},
		Federation: Federation{
			RegistryFile: registryFile,
		},
		Insurer: Insurer{
			BaseURL: insurerURL,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
