package app

import (
	"context"
	"fmt"
	"log"

	"card-editor/internal/draft"
	"card-editor/internal/export"
	cardimage "card-editor/internal/image"
	"card-editor/internal/product"
	"card-editor/internal/render"
)

// Export renders the card at print resolution without touching the draft.
func (s *Session) Export(ctx context.Context) (*export.Raster, error) {
	scene := s.Scene()
	if scene.Template == nil {
		return nil, ErrNoTemplate
	}
	r, err := s.opts.Exporter.Export(ctx, &scene)
	if err != nil {
		return nil, err
	}
	s.Emit(EventExported, r)
	return r, nil
}

// Complete exports the card, hands the raster to onComplete and uploads it
// in the background. The draft's rendered image URL is set once the upload
// succeeds; a failed upload is reported and leaves the draft unchanged.
func (s *Session) Complete(ctx context.Context, onComplete func(*export.Raster)) error {
	r, err := s.Export(ctx)
	if err != nil {
		return err
	}
	if onComplete != nil {
		onComplete(r)
	}
	if s.opts.Uploader == nil {
		return nil
	}

	s.uploads.Add(1)
	go func() {
		defer s.uploads.Done()
		url, err := s.opts.Uploader.Upload(context.WithoutCancel(ctx), r.JPEG, export.ContentType)
		if err != nil {
			s.uploadFailed(err, "card")
			return
		}
		log.Printf("app: card uploaded to %s", url)
		if _, err := s.Dispatch(context.WithoutCancel(ctx), draft.SetRenderedImage{ImageURL: url}); err != nil {
			log.Printf("app: %v", err)
		}
		s.Emit(EventUploaded, url)
	}()
	return nil
}

func (s *Session) uploadFailed(err error, what string) {
	if s.opts.Reporter == nil {
		log.Printf("app: %s upload failed: %v", what, err)
		s.Emit(EventUploadFailed, err)
		return
	}
	d := s.store.Draft()
	s.opts.Reporter.Report(err, map[string]string{
		"draftID": d.DraftID,
		"product": string(d.ProductHandle),
		"asset":   what,
	})
	s.Emit(EventUploadFailed, err)
}

// Wait blocks until background uploads finish.
func (s *Session) Wait() {
	s.uploads.Wait()
}

// RenderMessage rasterizes the order message for the back of the card.
func (s *Session) RenderMessage() (*export.Raster, error) {
	d := s.store.Draft()
	p, err := s.opts.Catalog.Get(d.ProductHandle)
	if err != nil {
		return nil, err
	}
	face := p.FaceSize(d.Orientation, product.FaceMessage)
	img := render.Message(d.OrderMessage, face, render.MessageOptions{
		Align:  d.FontAlignment,
		Handle: d.ProductHandle,
		Fonts:  s.opts.Fonts,
	})
	data, err := cardimage.JPEGBytes(img, export.DefaultQuality)
	if err != nil {
		return nil, fmt.Errorf("message: %w", err)
	}
	r := &export.Raster{Image: img, JPEG: data}
	s.Emit(EventMessageRendered, r)
	return r, nil
}

// UploadMessage renders and uploads the message image and records its URL.
func (s *Session) UploadMessage(ctx context.Context) (string, error) {
	if s.opts.Uploader == nil {
		return "", fmt.Errorf("message: no uploader configured")
	}
	r, err := s.RenderMessage()
	if err != nil {
		return "", err
	}
	url, err := s.opts.Uploader.Upload(ctx, r.JPEG, export.ContentType)
	if err != nil {
		s.uploadFailed(err, "message")
		return "", err
	}
	if _, err := s.Dispatch(ctx, draft.SetMessageImage{ImageURL: url}); err != nil {
		return "", err
	}
	return url, nil
}
