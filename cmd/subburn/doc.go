// Package main hosts the subburn CLI.
//
// The cobra command tree loads the configuration once per invocation and
// hands it to the internal packages: run drives the pipeline for a single
// video, check reports missing tools and models, history lists past runs and
// config scaffolds or prints the configuration file.
package main
