// Package fetch downloads remote text for the rustup bootstrap step.
package fetch
