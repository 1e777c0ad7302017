// Package export converts substituted documents into their fixed-layout form.
// Conversion is inherently an external capability (a converter binary or a
// remote service), so it sits behind a small interface the batch driver never
// looks past.
package export

import "context"

// 🔌 Exporter converts a document at src into a fixed-layout document at dst
type Exporter interface {
	// Export performs one conversion. Implementations honor ctx cancellation.
	Export(ctx context.Context, src, dst string) error

	// Ext is the extension of exported documents, without the dot
	Ext() string
}
