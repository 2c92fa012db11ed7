// Package models lists the OpenAI models available to the configured API
// key, grouped into speech models for the audio pass and chat models for
// the translation pass.
package models
