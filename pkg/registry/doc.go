// Package registry loads the package catalog that drives every install.
//
// # Overview
//
// A registry is a single document mapping package names to descriptors:
//
//	{
//	  "fmt": {
//	    "url": "https://github.com/fmtlib/fmt.git",
//	    "description": "A modern formatting library",
//	    "versions": {"latest": "11.0.2", "10.x": "10.2.1"},
//	    "dependencies": []
//	  }
//	}
//
// Only url is required. versions and dependencies default to empty.
//
// The document can live behind an http(s) URL, a file:// URL or a plain
// filesystem path, and may be written in JSON, YAML or TOML. The format is
// chosen from the location's extension, then the HTTP Content-Type, and
// falls back to JSON.
//
// # Loading
//
//	client := registry.NewClient(cfg, logger)
//	cat, err := client.LoadCatalog(ctx)
//	if err != nil {
//	    // REGISTRY_UNREACHABLE or REGISTRY_MALFORMED; both are fatal
//	}
//	d, ok := cat.Lookup("fmt")
//
// # Validation
//
// Parsing is a typed conversion that checks every field of every entry and
// reports all problems at once, each naming the package and field:
//
//	REGISTRY_MALFORMED: invalid registry document: fmt.url: required string field is missing
//
// A loaded [Catalog] is immutable: [Catalog.Lookup] returns copies.
package registry
