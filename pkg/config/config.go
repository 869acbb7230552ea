package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Validator is implemented by config structs that carry invariant checks
// struct tags cannot express, such as value ranges or cross-field rules.
type Validator interface {
	Validate() error
}

// Load fills cfg from the process environment using `env`/`envDefault`
// struct tags, then runs the struct's own Validate when it implements
// Validator.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if v, ok := cfg.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return nil
}
