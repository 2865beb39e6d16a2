// Package display provides terminal output for warnings and multi-document
// progress.
//
// # Warnings
//
// Advisories from a conversion (implicit row limiting, encoding fallback)
// are shown as a yellow warning block:
//
//	warning := display.AdvisoryWarning("data/users.json", result.Advisories)
//	warning.Display(os.Stderr)
//
// # Progress
//
// Use ProgressIndicator when rendering several documents:
//
//	progress := display.NewProgressIndicator(os.Stderr, len(docs))
//	progress.Start()
//	for _, doc := range docs {
//	    progress.Step(doc)
//	    // ... render doc ...
//	}
//	progress.Complete()
//
// All functions accept io.Writer so output can be captured in tests.
package display
