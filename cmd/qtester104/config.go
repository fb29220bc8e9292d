// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RTUConfig describes one controlled station to poll.
type RTUConfig struct {
	Name             string `yaml:"name"`
	IP               string `yaml:"ip"`
	IPBackup         string `yaml:"ip_backup"`
	Port             uint16 `yaml:"port"`
	SecondaryAddress uint16 `yaml:"secondary_address"`
	PrimaryAddress   uint8  `yaml:"primary_address"`
	GIPeriod         int    `yaml:"gi_period"`
	Enabled          *bool  `yaml:"enabled"`
	NoSeqCheck       bool   `yaml:"no_seq_order_check"`

	// TLS wrapping of the transport; plain TCP when CertFile and CACertFile
	// are empty and Insecure is false.
	CertFile   string `yaml:"cert_file"`
	KeyFile    string `yaml:"key_file"`
	CACertFile string `yaml:"ca_cert_file"`
	Insecure   bool   `yaml:"insecure_skip_verify"`
}

// FileConfig is the YAML file layout: a list of RTUs.
type FileConfig struct {
	RTUs []RTUConfig `yaml:"rtus"`
}

// IsEnabled treats a missing enabled key as true.
func (sf *RTUConfig) IsEnabled() bool {
	return sf.Enabled == nil || *sf.Enabled
}

func loadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.RTUs) == 0 {
		return nil, errors.New("config has no rtus")
	}
	for i := range cfg.RTUs {
		r := &cfg.RTUs[i]
		if r.Name == "" {
			r.Name = fmt.Sprintf("RTU%d", i+1)
		}
		if r.IP == "" {
			return nil, fmt.Errorf("%s: ip must be set", r.Name)
		}
		if r.SecondaryAddress == 0 {
			return nil, fmt.Errorf("%s: secondary_address must be set", r.Name)
		}
		if r.Port == 0 {
			r.Port = 2404
		}
		if r.PrimaryAddress == 0 {
			r.PrimaryAddress = 1
		}
	}
	return &cfg, nil
}
