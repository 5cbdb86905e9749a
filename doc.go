// Package mdtty renders Markdown to an ANSI terminal while the text is still
// arriving.
//
// The renderer pulls fragments from a Source (a model completion, a channel,
// an HTTP body) and writes styled output as soon as each decision can be made.
// It never reads more than a few characters ahead of what it has printed and
// never rewrites output it already emitted. Tables and boxed code blocks are
// the only constructs that are held back until they are complete, because
// their borders depend on the widest cell.
//
// Core properties:
//   - Pull-based parsing with at most five characters of lookahead
//   - Identical output regardless of how the text is split into fragments
//   - Full reset and re-apply of the style state on every scope change
//   - The terminal is left in a neutral state on every exit path
//
// Example:
//
//	err := mdtty.Render(ctx, mdtty.RenderRequest{
//		Source: mdtty.ChannelSource(tokens),
//		Writer: os.Stdout,
//		Theme:  mdtty.DefaultTheme(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Output is styled through package style, which collaborators can use for
// their own simpler output.
package mdtty
