// Package resumecli renders résumés written in YAML or JSON to HTML and
// PDF.
//
// # Quick Start
//
// Create a renderer, build a source file, and close when done:
//
//	r, err := resumecli.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	res, err := r.Build(ctx, resumecli.BuildInput{
//	    Source: "cv.yaml",
//	    Output: "cv.pdf",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if res.IsErrorPage() {
//	    log.Printf("cv.pdf holds an error page: %v", res.Failure)
//	}
//
// An artifact is always written: a source that cannot be read, or a
// document that does not match the schema, produces an error page in
// place of the résumé. Only configuration, write and browser failures are
// returned as errors.
//
// # Rendering Pipeline
//
//  1. Load and parse the source (YAML or JSON) into a JSON-model tree
//  2. Validate the tree against the résumé JSON Schema
//  3. Render every string leaf as Markdown (GFM tables, strikethrough,
//     ==highlight==, code highlighting)
//  4. Apply the template and inline its stylesheet
//  5. Print to PDF through headless Chrome (go-rod)
//
// # Templates
//
// The template set is closed: MinimalBlue and MinimalGreen. Unknown names
// fail with ErrUnknownTemplate when parsed, before anything is rendered.
// WithAssetPath points at a directory whose templates/, styles/ and
// schemas/ files override the embedded ones.
//
// # Configuration
//
//	r, err := resumecli.NewRenderer(
//	    resumecli.WithTimeout(time.Minute),
//	    resumecli.WithPage(&resumecli.PageSettings{Size: "a4", Orientation: "portrait", Margin: 0.5}),
//	    resumecli.WithFooter(&resumecli.Footer{ShowPageNumber: true, Date: "auto"}),
//	    resumecli.WithDateFormat("MMMM YYYY"),
//	)
//
// # Parallel Builds
//
// A Renderer drives one browser. For batches, use a RendererPool:
//
//	pool := resumecli.NewRendererPool(resumecli.ResolvePoolSize(0))
//	defer pool.Close()
//
//	r, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(r)
//
// # Errors
//
// Schema failures are *ValidationError values listing every violation.
// Use errors.Is with the exported sentinels for the rest.
package resumecli
