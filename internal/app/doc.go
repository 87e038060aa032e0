// Package app is the application layer — the only component that
// references multiple domain components. It orchestrates the feedback,
// reputation, recommendation, points, and redemption use cases.
package app
