// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Entry manifests are JSON, which is valid CUE, so the same three steps
// serve both the host configuration file and every app.json:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with schema
//  3. Validate and decode to Go struct
//
// # Usage
//
//	//go:embed manifest_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[AppConfig](
//	    schemaBytes,
//	    data,
//	    "#AppConfig",
//	    cueutil.WithFilename("src/app.json"),
//	)
package cueutil
