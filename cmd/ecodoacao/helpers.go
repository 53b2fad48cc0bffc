package main

import "github.com/lucasvrm/ecodoacao/internal/prompt"

// promptPassword accepts any non-empty answer.
func promptPassword() prompt.InputOptions {
	min := 1
	return prompt.InputOptions{MinLength: &min}
}
