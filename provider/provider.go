// Package provider implements machine translation backends for the langpack Filler.
package provider

import "github.com/ZaguanLabs/gointl"

// AIProvider is an alias to the main package interface for convenience.
type AIProvider = gointl.AIProvider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = gointl.TranslateRequest
