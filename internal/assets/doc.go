// Package assets loads the report stylesheet and HTML templates.
//
// Three loaders share one interface:
//
//	AssetLoader
//	    ├── EmbeddedLoader    built-in styles and templates (go:embed)
//	    ├── FilesystemLoader  a user directory with the same layout
//	    └── AssetResolver     user directory first, embedded on not-found
//
// Layout of an asset directory:
//
//	{basePath}/
//	├── styles/{name}.css
//	└── templates/{name}/
//	    ├── cover.html
//	    └── colophon.html
//
// Names are validated against traversal, and the filesystem loader resolves
// symlinks before checking that a path stays under basePath.
package assets
