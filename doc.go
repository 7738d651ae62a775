// Package reportpdf renders report Markdown to PDF through HTML and
// headless Chrome.
//
// # Quick Start
//
//	conv, err := reportpdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, reportpdf.Input{
//	    Markdown: "# 1. INTRODUCCIÓN\n\nTexto.",
//	    Cover:    &reportpdf.Cover{Title: "Árbol de Decisión"},
//	    TOC:      &reportpdf.TOC{Title: "ÍNDICE", MaxDepth: 1},
//	})
//
// result.PDF holds the document and result.HTML the page that was printed.
// Input.HTMLOnly skips the browser entirely.
//
// # Pipeline
//
//  1. Markdown preprocessing: ==mark==, {color:NAME}…{/color}, {br},
//     and the block directives {pagebreak}, {spacer:LEN} and {table:STYLE}.
//  2. goldmark to HTML (GFM, footnotes, chroma classes, heading ids).
//  3. Relative paths to file:// URLs; image titles "size:WxH" set the
//     figure size in inches.
//  4. CSS (page breaks, theme, watermark, style, caller CSS), cover, index
//     and colophon injection.
//  5. PDF printing with go-rod.
//
// # Parallel Processing
//
//	pool := reportpdf.NewConverterPool(reportpdf.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//
// # Custom Assets
//
//	loader, err := reportpdf.NewAssetLoader("/path/to/assets")
//	conv, err := reportpdf.NewConverter(reportpdf.WithAssetLoader(loader))
//
//	assets/
//	├── styles/
//	│   └── custom.css
//	└── templates/
//	    └── custom/
//	        ├── cover.html
//	        └── colophon.html
//
// # Browser
//
// go-rod downloads a managed Chromium on first use unless ROD_BROWSER_BIN
// points at an installed one. With ROD_BROWSER_BIN set, or CI=true, the
// Chrome sandbox is disabled.
package reportpdf
