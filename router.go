package main

import (
	"context"
	"fmt"

	"mehearsal/catalog"
	"mehearsal/results"
	"mehearsal/studio"
	"mehearsal/view"

	"github.com/cdfmlr/crud/router"
	"github.com/gin-gonic/gin"
)

// MakeRouter starts every module on a new router.
// The studio sweeps its idle sessions until ctx is done.
func MakeRouter(ctx context.Context, cfg MehearsalConfig) (*gin.Engine, error) {
	r := router.NewRouter()

	tmpl, err := view.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	// catalog screen: songs, instruments, ensemble selection
	cat, err := catalog.Start(ctx, cfg.Catalog.module(), r)
	if err != nil {
		return nil, fmt.Errorf("MakeRouter: %w", err)
	}

	// studio screen: transport, mixer
	studio.Start(ctx, cfg.Studio.module(), cat, r)

	// results screen
	results.Start(r)

	return r, nil
}
