// Package config loads engine settings and pipeline documents.
//
// Engine settings are YAML:
//
//	version: 1
//	log:
//	  level: debug   # debug, info, warn, error
//	  format: json   # text or json
//	cache:
//	  decoded: 64    # decoded File sources kept; 0 disables sharing
//	pool:
//	  per_bucket: 8  # released rasters kept per size
//	surface:
//	  max_dim: 8192  # largest surface side in pixels
//
// A pipeline document lists the nodes and edges to build, in YAML or HCL.
// Parameters left out keep the defaults of their effect kind.
//
//	version: 1
//	nodes:
//	  - id: photo
//	    effect: file
//	    params: {path: photo.jpg}
//	  - id: out
//	    effect: export
//	    params: {format: jpeg, quality: 0.8}
//	edges:
//	  - {from: photo, to: out}
//
// The same document in HCL:
//
//	version = 1
//
//	node "photo" {
//	  effect = "file"
//	  path   = "photo.jpg"
//	}
//
//	node "out" {
//	  effect  = "export"
//	  format  = "jpeg"
//	  quality = 0.8
//	}
//
//	edge {
//	  from = "photo"
//	  to   = "out"
//	}
package config
