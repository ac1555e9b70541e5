// Package analytics computes frequency distributions and label statistics over
// a normalized corpus. The stopword auto-tuner consumes them.
package analytics
