package fold

import (
	"go.uber.org/zap"

	"github.com/dshills/cubicfold/internal/notify"
	"github.com/dshills/cubicfold/internal/section"
)

// DefaultColumnOffset is the column the fold selection is anchored at on the
// start and end rows. It lies past typical line content so the folded start
// row keeps its full text visible.
const DefaultColumnOffset = 200

// Controller runs fold commands against the active buffer.
type Controller struct {
	workspace    Workspace
	notifier     Notifier
	scanner      *section.Scanner
	columnOffset int
	logger       *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithMarker sets the marker predicate used to find sections.
func WithMarker(marker section.MarkerFunc) Option {
	return func(c *Controller) {
		c.scanner = section.NewScanner(marker)
	}
}

// WithColumnOffset sets the column the fold selection is anchored at.
func WithColumnOffset(column int) Option {
	return func(c *Controller) {
		if column >= 0 {
			c.columnOffset = column
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger.Named("fold")
		}
	}
}

// NewController creates a controller for the buffers of ws.
// A nil notifier discards notifications.
func NewController(ws Workspace, n Notifier, opts ...Option) *Controller {
	c := &Controller{
		workspace:    ws,
		notifier:     n,
		scanner:      section.NewScanner(nil),
		columnOffset: DefaultColumnOffset,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ColumnOffset returns the fold selection column.
func (c *Controller) ColumnOffset() int {
	return c.columnOffset
}

// Scanner returns the section scanner.
func (c *Controller) Scanner() *section.Scanner {
	return c.scanner
}

// Sections scans the active buffer, resolving the section under the cursor.
func (c *Controller) Sections() (section.Result, error) {
	buf := c.active()
	if buf == nil {
		return section.Invalid, ErrNoActiveDocument
	}
	return c.scanner.Scan(buf, buf.CursorRow()), nil
}

// FoldAll folds every section. In quiet mode an invalid document is not
// reported to the user; ErrMarkerValidation is still returned.
func (c *Controller) FoldAll(quiet bool) error {
	buf := c.active()
	if buf == nil {
		return ErrNoActiveDocument
	}

	cursor := buf.CursorRow()
	res := c.scanner.Scan(buf, cursor)
	if !res.Valid {
		if !quiet {
			c.reportInvalid()
		}
		c.logger.Debug("fold all skipped, markers invalid", zap.Bool("quiet", quiet))
		return ErrMarkerValidation
	}
	defer buf.SetCursorRow(cursor)

	c.applyFold(buf, res.Sections)
	c.logger.Debug("folded all sections", zap.Int("sections", len(res.Sections)))
	return nil
}

// UnfoldAll unfolds every section. When the markers are invalid it falls
// back to unfolding folded marker rows, and reports a failure only if that
// finds nothing to unfold.
func (c *Controller) UnfoldAll() error {
	buf := c.active()
	if buf == nil {
		return ErrNoActiveDocument
	}

	cursor := buf.CursorRow()
	res := c.scanner.Scan(buf, cursor)
	if !res.Valid {
		return c.fallback(buf)
	}
	defer buf.SetCursorRow(cursor)

	for _, s := range res.Sections {
		buf.UnfoldRow(s.Start)
	}
	c.logger.Debug("unfolded all sections", zap.Int("sections", len(res.Sections)))
	return nil
}

// ToggleFoldAll unfolds every section if any section is folded, and folds
// every section otherwise. It never unfolds and folds in the same call.
func (c *Controller) ToggleFoldAll() error {
	buf := c.active()
	if buf == nil {
		return ErrNoActiveDocument
	}

	cursor := buf.CursorRow()
	res := c.scanner.Scan(buf, cursor)
	if !res.Valid {
		return c.fallback(buf)
	}
	defer buf.SetCursorRow(cursor)

	didUnfold := false
	for _, s := range res.Sections {
		if buf.IsFoldedAt(s.Start) {
			buf.UnfoldRow(s.Start)
			didUnfold = true
		}
	}
	if didUnfold {
		c.logger.Debug("toggle all unfolded sections")
		return nil
	}

	c.applyFold(buf, res.Sections)
	c.logger.Debug("toggle all folded sections", zap.Int("sections", len(res.Sections)))
	return nil
}

// ToggleFold unfolds the cursor row if it is folded. Otherwise it folds the
// section that contains the cursor, if any.
func (c *Controller) ToggleFold() error {
	buf := c.active()
	if buf == nil {
		return ErrNoActiveDocument
	}

	cursor := buf.CursorRow()
	if buf.IsFoldedAt(cursor) {
		buf.UnfoldRow(cursor)
		return nil
	}

	res := c.scanner.Scan(buf, cursor)
	if !res.Valid {
		c.reportInvalid()
		return ErrMarkerValidation
	}
	defer buf.SetCursorRow(cursor)

	s, ok := res.CurrentSection()
	if !ok {
		c.logger.Debug("cursor outside every section", zap.Int("row", cursor))
		return nil
	}
	c.applyFold(buf, []section.Section{s})
	return nil
}

// UnfoldMarkers unfolds every folded marker row without validating the
// marker structure. It reports whether anything was unfolded.
func (c *Controller) UnfoldMarkers() (bool, error) {
	buf := c.active()
	if buf == nil {
		return false, ErrNoActiveDocument
	}
	return c.unfoldMarkers(buf), nil
}

func (c *Controller) unfoldMarkers(buf Buffer) bool {
	didUnfold := false
	for row := 0; row < buf.LineCount(); row++ {
		if c.scanner.IsMarker(buf.LineText(row)) && buf.IsFoldedAt(row) {
			buf.UnfoldRow(row)
			didUnfold = true
		}
	}
	return didUnfold
}

// fallback runs the marker unfold for an invalid document.
func (c *Controller) fallback(buf Buffer) error {
	if c.unfoldMarkers(buf) {
		c.logger.Debug("markers invalid, unfolded folded marker rows")
		return nil
	}
	c.reportInvalid()
	return ErrMarkerValidation
}

func (c *Controller) applyFold(buf Buffer, sections []section.Section) {
	for _, s := range sections {
		buf.SelectRowRange(s.Start, s.End, c.columnOffset)
		buf.FoldSelection()
	}
}

func (c *Controller) reportInvalid() {
	c.logger.Info("fold markers missing or unpaired")
	if c.notifier != nil {
		c.notifier.Notify(notify.KindMarkerValidation, MessageMarkersMissing)
	}
}

// active returns the active buffer, or nil when no document is open.
func (c *Controller) active() Buffer {
	if c.workspace == nil {
		return nil
	}
	return c.workspace.ActiveBuffer()
}
