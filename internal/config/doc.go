// Package config manages persistent user settings stored at
// ~/.pybake/config.yaml. Stored values (full name, email, account handles,
// formatting preferences) become the default answers for template prompts.
package config
