// Package assets provides export themes: the CSS injected into the exported
// document and the inline style mapping applied to each node kind.
//
// # Loader Architecture
//
//	ThemeLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in themes compiled into the binary
//	    ├── FilesystemLoader  - {basePath}/themes/{name}.yaml on disk
//	    └── ThemeResolver     - custom first, embedded on not-found
//
// A theme file is YAML:
//
//	name: classic
//	description: Serif body with centered title
//	css: |
//	  body { font-family: Georgia, serif; }
//	styles:
//	  h1: "font-size: 24px; font-weight: bold;"
//	  title: "text-align: center; margin-bottom: 20px;"
//
// Style keys are node kinds (see StyleKeys). Unknown keys are rejected.
//
// # Security
//
// Theme names are validated so they cannot carry path separators or dots.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
