// Package config loads spamkit's YAML configuration, applies SPAMKIT_*
// environment overrides, and builds the normalization components it describes.
//
// Example file:
//
//	dataset:
//	  path: SMSSpamCollection
//	  labels: [ham, spam]
//	normalize:
//	  mode: lemma
//	  pos: verb
//	  stoplist: stoplist.yaml
//	vocabulary:
//	  min_count: 2
//	split:
//	  fraction: 0.8
//	  seed: 42
//	store:
//	  driver: sqlite
//	  path: spamkit.db
package config
