package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"sync"
	"unicode/utf8"

	"card-editor/internal/config"
	"card-editor/internal/draft"
	"card-editor/internal/export"
	cardimage "card-editor/internal/image"
	"card-editor/internal/placement"
	"card-editor/internal/product"
	"card-editor/internal/render"
	"card-editor/internal/sticker"
	"card-editor/internal/template"
	"card-editor/internal/upload"
	"card-editor/pkg/geometry"

	"golang.org/x/sync/errgroup"
)

// ErrNoTemplate is returned by operations that need a loaded template.
var ErrNoTemplate = errors.New("no template loaded")

// textStickerAspect approximates glyph width as a fraction of the height.
const textStickerAspect = 0.6

// Options wires a Session to its collaborators. Templates and Images are
// required.
type Options struct {
	Catalog   *product.Catalog
	Templates *template.Cache
	Images    *cardimage.Cache
	Exporter  *export.Pipeline
	Uploader  upload.Uploader
	Reporter  upload.Reporter
	Container config.Container
	Fonts     *render.Fonts
}

type templateKey struct {
	handle      string
	product     product.Handle
	orientation product.Orientation
}

// Session is one card being edited.
type Session struct {
	store *draft.Store
	opts  Options

	mu        sync.RWMutex
	template  *template.RenderTemplate
	key       templateKey
	scale     float64
	selection render.Selection

	imageDrags      map[int]*placement.ImageDrag
	stickerGestures map[string]*sticker.Gesture
	swap            *placement.SwapDrag

	evMu      sync.RWMutex
	listeners map[EventType][]EventListener

	uploads sync.WaitGroup
}

// NewSession starts editing d. Call LoadTemplate before drawing.
func NewSession(d draft.EditorDraft, opts Options) *Session {
	if opts.Catalog == nil {
		opts.Catalog = product.DefaultCatalog()
	}
	if opts.Reporter == nil {
		opts.Reporter = upload.LogReporter{}
	}
	if opts.Exporter == nil {
		opts.Exporter = export.NewPipeline(export.Options{Fonts: opts.Fonts})
	}
	s := &Session{
		store:           draft.NewStore(d),
		opts:            opts,
		imageDrags:      make(map[int]*placement.ImageDrag),
		stickerGestures: make(map[string]*sticker.Gesture),
		listeners:       make(map[EventType][]EventListener),
	}
	s.store.Subscribe(s.onDraftChanged)
	opts.Images.OnResolve(s.onBitmap)
	return s
}

// Draft returns the current draft.
func (s *Session) Draft() draft.EditorDraft {
	return s.store.Draft()
}

// Template returns the loaded template, or nil.
func (s *Session) Template() *template.RenderTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.template
}

// Scale returns the on-screen canvas scale, or false before layout.
func (s *Session) Scale() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scale, s.scale > 0
}

// Dispatch applies a to the draft. Zoom and rotate actions without a
// template get the session's. A change of template, product or orientation
// reloads the template.
func (s *Session) Dispatch(ctx context.Context, a draft.Action) (draft.EditorDraft, error) {
	d := s.store.Dispatch(draft.WithTemplate(a, s.Template()))

	s.mu.RLock()
	stale := s.key != keyOf(d)
	s.mu.RUnlock()
	if stale {
		if err := s.LoadTemplate(ctx); err != nil {
			return s.store.Draft(), err
		}
	}
	return s.store.Draft(), nil
}

func keyOf(d draft.EditorDraft) templateKey {
	return templateKey{handle: d.TemplateHandle, product: d.ProductHandle, orientation: d.Orientation}
}

// LoadTemplate resolves the draft's template for its product and
// orientation, recomputes the canvas scale and starts loading assets.
func (s *Session) LoadTemplate(ctx context.Context) error {
	d := s.store.Draft()
	p, err := s.opts.Catalog.Get(d.ProductHandle)
	if err != nil {
		return err
	}
	rt, err := s.opts.Templates.Get(ctx, d.TemplateHandle, p.Front, d.Orientation)
	if err != nil {
		return fmt.Errorf("load template %s: %w", d.TemplateHandle, err)
	}
	scale, ok := placement.CanvasScale(rt.Size, rt.Bleed, s.opts.Container.Size(), s.opts.Container.Mode)
	if !ok {
		scale = 0
		log.Printf("app: no canvas scale for %s in %+v", rt.Handle, s.opts.Container)
	}

	s.mu.Lock()
	s.template = &rt
	s.key = keyOf(d)
	s.scale = scale
	s.imageDrags = make(map[int]*placement.ImageDrag)
	s.stickerGestures = make(map[string]*sticker.Gesture)
	s.swap = nil
	if s.selection.Kind == render.SelectViewport && s.selection.Viewport >= len(rt.Viewports) {
		s.selection = render.Selection{}
	}
	s.mu.Unlock()

	s.opts.Exporter.SetScale(scale)
	log.Printf("app: template %s %s %.0fx%.0f, %d viewports, scale %.3f",
		rt.Handle, rt.Orientation, rt.Size.Width, rt.Size.Height, len(rt.Viewports), scale)
	s.Emit(EventTemplateLoaded, &rt)

	s.requestAssets()
	s.reconcile()
	return nil
}

// AssetURLs lists every bitmap the current scene needs.
func (s *Session) AssetURLs() []string {
	return assetURLs(s.Template(), s.store.Draft())
}

func assetURLs(rt *template.RenderTemplate, d draft.EditorDraft) []string {
	seen := make(map[string]bool)
	var urls []string
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	if rt != nil {
		add(rt.Frame)
		if rt.Caption != nil {
			add(rt.Caption.Image.URL)
		}
	}
	d.ImageData.Each(func(_ int, p *draft.ImagePlacement) {
		if p != nil {
			add(p.ImageURL)
		}
	})
	for _, st := range d.Stickers {
		if st.Kind == draft.KindImage {
			add(st.StickerURL)
		}
	}
	return urls
}

func (s *Session) requestAssets() {
	for _, u := range s.AssetURLs() {
		s.opts.Images.Request(u)
	}
}

// Settle waits for every asset of the scene to resolve and applies the
// resulting corrections. Failed assets are not an error.
func (s *Session) Settle(ctx context.Context) error {
	for {
		var g errgroup.Group
		for _, u := range s.AssetURLs() {
			u := u
			g.Go(func() error {
				s.opts.Images.Wait(ctx, u)
				return ctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		s.reconcile()
		if s.allResolved() {
			return nil
		}
	}
}

func (s *Session) allResolved() bool {
	for _, u := range s.AssetURLs() {
		switch s.opts.Images.Get(u).Status {
		case cardimage.StatusReady, cardimage.StatusFailed:
		default:
			return false
		}
	}
	return true
}

func (s *Session) onDraftChanged(prev, next draft.EditorDraft, a draft.Action) {
	s.mu.Lock()
	if sel := s.selection; sel.Kind == render.SelectSticker {
		if _, ok := next.Sticker(sel.StickerID); !ok {
			s.selection = render.Selection{}
		}
	}
	s.mu.Unlock()

	s.Emit(EventDraftChanged, next)
	s.requestAssets()
	s.reconcile()
}

func (s *Session) onBitmap(url string, e cardimage.Entry) {
	switch e.Status {
	case cardimage.StatusReady:
		s.Emit(EventBitmapReady, url)
	case cardimage.StatusFailed:
		s.Emit(EventBitmapFailed, url)
	}
	s.reconcile()
}

// reconcile applies corrections until the draft agrees with the loaded
// bitmaps: failed or empty photos and stickers are removed, photos are
// cover-fitted and new stickers are measured.
func (s *Session) reconcile() {
	rt := s.Template()
	if rt == nil {
		return
	}
	for {
		if _, ok := s.store.DispatchFunc(func(d draft.EditorDraft) (draft.Action, bool) {
			return s.correction(rt, d)
		}); !ok {
			return
		}
	}
}

func (s *Session) correction(rt *template.RenderTemplate, d draft.EditorDraft) (draft.Action, bool) {
	for i := 0; i < d.ImageData.Len(); i++ {
		p, ok := d.ImageData.Get(i)
		if !ok {
			continue
		}
		vp, ok := rt.Viewport(i)
		if !ok {
			continue
		}
		e := s.opts.Images.Get(p.ImageURL)
		switch e.Status {
		case cardimage.StatusFailed:
			return draft.RemoveViewportImage{Index: i}, true
		case cardimage.StatusReady:
			if e.Bitmap.Empty() {
				return draft.RemoveViewportImage{Index: i}, true
			}
			w, h := placement.CoverFit(float64(e.Bitmap.Width()), float64(e.Bitmap.Height()), vp.Width, vp.Height, p.Rotate)
			if !near(w, p.Width) || !near(h, p.Height) {
				return draft.SetViewportImageSize{Index: i, Width: w, Height: h}, true
			}
		}
	}

	for _, st := range d.Stickers {
		switch st.Kind {
		case draft.KindImage:
			e := s.opts.Images.Get(st.StickerURL)
			if e.Status == cardimage.StatusFailed || (e.Status == cardimage.StatusReady && e.Bitmap.Empty()) {
				return draft.RemoveSticker{ID: st.ID}, true
			}
			if e.Status == cardimage.StatusReady && !st.Measured() {
				if a, ok := sticker.MeasureAction(st, rt.Size, float64(e.Bitmap.Width()), float64(e.Bitmap.Height())); ok {
					return a, true
				}
			}
		case draft.KindText:
			if !st.Measured() && st.Text != "" {
				w := float64(utf8.RuneCountInString(st.Text)) * textStickerAspect
				if a, ok := sticker.MeasureAction(st, rt.Size, w, 1); ok {
					return a, true
				}
			}
		}
	}
	return nil, false
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

// Selection returns the current selection.
func (s *Session) Selection() render.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// Select replaces the selection. Selecting a sticker raises it to the top.
func (s *Session) Select(ctx context.Context, sel render.Selection) error {
	s.mu.Lock()
	s.selection = sel
	s.mu.Unlock()
	s.Emit(EventSelectionChanged, sel)

	if sel.Kind == render.SelectSticker {
		for _, a := range sticker.Select(sel.StickerID) {
			if _, err := s.Dispatch(ctx, a); err != nil {
				return err
			}
		}
	}
	return nil
}

// Tap selects whatever is under p in canvas pixels: the top-most sticker,
// then a viewport. Tapping empty canvas clears the selection.
func (s *Session) Tap(ctx context.Context, p geometry.Point2D) (render.Selection, error) {
	rt := s.Template()
	if rt == nil {
		return render.Selection{}, ErrNoTemplate
	}
	var sel render.Selection
	if id, ok := sticker.HitTest(s.store.Draft().Stickers, rt.Size, p); ok {
		sel = render.StickerSelection(id)
	} else if i, ok := placement.HitTestViewport(p, rt.Viewports); ok {
		sel = render.ViewportSelection(i)
	}
	return sel, s.Select(ctx, sel)
}

// Scene returns a snapshot for drawing, including live gestures. The
// snapshot shares no mutable state with the session.
func (s *Session) Scene() render.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	drags := make(map[int]geometry.Point2D, len(s.imageDrags))
	for i, d := range s.imageDrags {
		drags[i] = d.Position()
	}
	poses := make(map[string]render.StickerPose, len(s.stickerGestures))
	for id, g := range s.stickerGestures {
		poses[id] = render.StickerPose{Center: g.Center(), Scale: g.Scale(), Rotation: g.Rotation()}
	}
	scene := render.Scene{
		Template:     s.template,
		Draft:        s.store.Draft(),
		Selection:    s.selection,
		Bitmaps:      s.opts.Images,
		ImageDrags:   drags,
		StickerPoses: poses,
	}
	if s.swap != nil {
		scene.DropTarget, scene.Dropping = s.swap.DropTarget()
	}
	return scene
}

// Preview draws the scene at on-screen scale.
func (s *Session) Preview() (image.Image, error) {
	scale, ok := s.Scale()
	if !ok {
		return nil, export.ErrNotReady
	}
	scene := s.Scene()
	c := render.NewGGCanvas(scene.Template.Size, scale, s.opts.Fonts)
	render.Draw(c, scene)
	return c.Image(), nil
}
