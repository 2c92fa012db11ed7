// Package translation translates note fields between two languages using
// the OpenAI chat API or Google Gemini. Every call goes out to the
// provider; nothing is cached and nothing is retried.
package translation
