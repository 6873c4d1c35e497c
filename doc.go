// Package canal is a node-based image compositing engine.
//
// # Overview
//
// A compositing graph is built from nodes, each carrying one effect (File,
// Text, Blur, Transform, Merge, ...), and edges feeding one node's output
// into another node's input handle. Whenever an effect, an edge or an
// upstream output changes, the affected nodes are re-evaluated in the
// background and their results flow downstream until the graph settles.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/canal"
//	    "github.com/gogpu/canal/effect"
//	)
//
//	eng := canal.New()
//	defer eng.Close()
//
//	eng.AddNode("photo", effect.File{Source: effect.Path("photo.jpg")})
//	eng.AddNode("soft", effect.Blur{Amount: 4, Quality: effect.QualityHigh})
//	eng.AddNode("out", effect.Export{Format: effect.FormatPNG})
//	eng.Connect("photo", "soft", "")
//	eng.Connect("soft", "out", "")
//
//	eng.Wait()
//	f, _ := os.Create("out.png")
//	eng.Export(context.Background(), "out", f)
//
// # Architecture
//
// The engine is organized into:
//   - effect: effect parameters, defaults and handle names
//   - graph: node and edge store, dependency resolution, guarded commits
//   - eval: computes one node output from its effect and upstream
//   - propagate: re-evaluates nodes as the graph changes
//   - raster, text: pixel operations and text rendering
//   - config: engine configuration and pipeline documents
//
// # Ownership
//
// Rasters are shared between nodes and reference counted by a
// [raster.Arena]. Node outputs read through [Engine.Output] stay valid until
// the returned release function is called.
package canal

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
