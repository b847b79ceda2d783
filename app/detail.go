package app

import (
	"context"
	"fmt"

	"vitrine/content"
	"vitrine/lazy"
	"vitrine/quarkgl"
	"vitrine/scene"
)

// ProductModelModule is the lazy module id of the detail-view 3D model.
const ProductModelModule = "product-model"

// modelKit is the loaded product-model module.
type modelKit struct {
	parts     []scene.Primitive
	triangles int
}

// loadProductModel validates and tessellates the bottle once so detail views
// can be stood up without further checks.
func loadProductModel(ctx context.Context, _ string) (any, error) {
	kit := &modelKit{parts: scene.BottleParts()}
	for _, p := range kit.parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := quarkgl.Tessellate(p)
		if err != nil {
			return nil, fmt.Errorf("model part %s: %w", p.Shape, err)
		}
		kit.triangles += m.Triangles()
	}
	return kit, nil
}

// detailView is the modal's model pane for one product. Its model is mounted
// once the product-model module is ready.
type detailView struct {
	product content.Product
	state   lazy.LoadState
	modelView
}

// mountDetail is the overlay Mounter.
func (a *App) mountDetail(p content.Product) func() {
	ctx, cancel := context.WithCancel(a.ctx)
	v := &detailView{product: p}
	a.detail = v

	v.state = a.loader.EnsureLoaded(ctx, ProductModelModule, func(st lazy.LoadState) {
		a.detailLoaded(v, st)
	})
	if v.state.Settled() {
		a.detailLoaded(v, v.state)
	}

	return func() {
		cancel()
		if v.mount != nil {
			v.mount.Unmount()
		}
		if a.detail == v {
			a.detail = nil
		}
	}
}

func (a *App) detailLoaded(v *detailView, st lazy.LoadState) {
	v.state = st
	if st.State != lazy.Ready {
		return
	}
	kit, ok := st.Handle.(*modelKit)
	if !ok {
		v.state = lazy.LoadState{State: lazy.Failed, Err: fmt.Errorf("product model: unexpected handle %T", st.Handle)}
		a.log.Warn("app.detail.failed", "product", v.product.Name, "err", v.state.Err)
		return
	}
	mv, err := a.mountModel("detail:"+v.product.Name, kit.parts, 1.1)
	if err != nil {
		v.state = lazy.LoadState{State: lazy.Failed, Err: err}
		a.log.Warn("app.detail.failed", "product", v.product.Name, "err", err)
		return
	}
	v.modelView = mv
}
