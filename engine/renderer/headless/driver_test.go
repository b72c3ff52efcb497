package headless

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

func TestNewRenderTargetValidates(t *testing.T) {
	d := New()
	if _, err := d.NewRenderTarget(metadata.RenderTargetDisplay, 1, 1); !errors.Is(err, core.ErrUnsupportedTarget) {
		t.Errorf("creating a display target: %v", err)
	}
	rt, err := d.NewRenderTarget(metadata.RenderTargetColorHDR16, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if rt.AttachmentCount() != 2 || !rt.IsMultisampled() {
		t.Errorf("hdr target: %d attachments, multisampled %t", rt.AttachmentCount(), rt.IsMultisampled())
	}
	if got := d.Count(OpCreateTarget, rt.Name()); got != 1 {
		t.Errorf("create commands = %d", got)
	}
	if d.LiveTargets() != 1 {
		t.Errorf("LiveTargets() = %d", d.LiveTargets())
	}
}

func TestTargetTexturesFollowViewport(t *testing.T) {
	d := New()
	rt, _ := d.NewRenderTarget(metadata.RenderTargetColor, 1, 1)
	if rt.Texture(0) != nil {
		t.Fatal("textures are allocated on the first SetViewport")
	}
	rt.SetViewport(metadata.NewViewport(0, 0, 320, 200))
	first := rt.Texture(0)
	if first == nil || first.Width != 320 || first.Height != 200 {
		t.Fatalf("texture = %+v", first)
	}
	if first.Name == "" {
		t.Error("textures are named")
	}

	rt.SetViewport(metadata.NewViewport(10, 10, 320, 200))
	if rt.Texture(0) != first {
		t.Error("same size must keep the texture")
	}
	rt.SetViewport(metadata.NewViewport(0, 0, 640, 400))
	if rt.Texture(0) == first || rt.Texture(0).Width != 640 {
		t.Error("resize must reallocate the texture")
	}
}

func TestBlitColorRejectsMultisampledDestination(t *testing.T) {
	d := New()
	src, _ := d.NewRenderTarget(metadata.RenderTargetColor, 1, 1)
	dst, _ := d.NewRenderTarget(metadata.RenderTargetColor, 1, 1)

	if err := src.BlitColor(d.Display(), false); !errors.Is(err, core.ErrUnsupportedTarget) {
		t.Errorf("blit to display: %v", err)
	}
	if err := src.BlitColor(dst, true); err != nil {
		t.Fatalf("blit: %v", err)
	}
	cmds := d.Commands()
	last := cmds[len(cmds)-1]
	if last.Op != OpBlitColor || last.Dest != dst.Name() || !last.FlipY {
		t.Errorf("last command = %s", last)
	}
}

func TestSetTextureImageIndexBounds(t *testing.T) {
	d := New()
	rt, _ := d.NewRenderTarget(metadata.RenderTargetDepthArray, 1, 4)
	for layer := 0; layer < 4; layer++ {
		if err := rt.SetTextureImageIndex(layer, 0); err != nil {
			t.Fatalf("layer %d: %v", layer, err)
		}
	}
	if err := rt.SetTextureImageIndex(4, 0); !errors.Is(err, core.ErrUnsupportedTarget) {
		t.Errorf("layer out of range: %v", err)
	}
	if rt.(*Target).Layer() != 3 {
		t.Errorf("Layer() = %d", rt.(*Target).Layer())
	}
}

func TestDiscardAndBind(t *testing.T) {
	d := New()
	rt, _ := d.NewRenderTarget(metadata.RenderTargetColor, 1, 1)
	target := rt.(*Target)
	rt.DiscardTransientBuffers()
	if !target.Discarded() {
		t.Fatal("Discarded() = false")
	}
	if err := rt.Bind(); err != nil {
		t.Fatal(err)
	}
	if target.Discarded() {
		t.Error("binding starts a new frame of contents")
	}
	if d.Bound() != rt {
		t.Error("Bound() should report the last bound target")
	}
}

func TestDestroyedTarget(t *testing.T) {
	d := New()
	rt, _ := d.NewRenderTarget(metadata.RenderTargetColor, 1, 1)
	rt.Destroy()
	rt.Destroy()
	if err := rt.Bind(); !errors.Is(err, core.ErrTargetDestroyed) {
		t.Errorf("bind after destroy: %v", err)
	}
	if d.Count(OpDestroyTarget, "") != 1 {
		t.Error("destroy is idempotent")
	}
	d.Display().Destroy()
	if err := d.Display().Bind(); err != nil {
		t.Errorf("the display cannot be destroyed: %v", err)
	}
}

func TestPostProcessBlit(t *testing.T) {
	d := New()
	src, _ := d.NewRenderTarget(metadata.RenderTargetColorHDR16, 2, 1)
	dst, _ := d.NewRenderTarget(metadata.RenderTargetColor, 1, 1)
	src.SetViewport(metadata.NewViewport(0, 0, 8, 8))

	shader := &metadata.ImageShader{Name: "blend", Samplers: []string{"a", "b"}, Code: []string{"frag_color = vec4(1.0);"}}
	pp, err := d.NewImagePostProcess(shader)
	if err != nil {
		t.Fatal(err)
	}
	if err := pp.Blit(src, 0, dst, nil, d); err == nil {
		t.Error("sampler count mismatch must fail")
	}
	if err := pp.Blit(src, 2, dst, []*metadata.Texture{src.Texture(1)}, d); !errors.Is(err, core.ErrUnsupportedTarget) {
		t.Errorf("reading a missing attachment: %v", err)
	}
	if err := pp.Blit(src, 1, dst, []*metadata.Texture{src.Texture(0)}, d); err != nil {
		t.Fatal(err)
	}
	cmds := d.Commands()
	last := cmds[len(cmds)-1]
	if last.Op != OpPostProcess || last.Program != "blend" || last.Target != src.Name() || last.Dest != dst.Name() || last.Attachment != 1 {
		t.Errorf("last command = %s", last)
	}
	if d.Bound() != dst {
		t.Error("the destination is bound by the blit")
	}

	pp.SetUniform("exposure", 2)
	if v, ok := pp.(*PostProcess).Uniform("exposure"); !ok || v != 2 {
		t.Errorf("Uniform(exposure) = %f, %t", v, ok)
	}
}

func TestNewImagePostProcessValidates(t *testing.T) {
	d := New()
	if _, err := d.NewImagePostProcess(nil); err == nil {
		t.Error("nil shader")
	}
	if _, err := d.NewImagePostProcess(&metadata.ImageShader{Name: "empty"}); err == nil {
		t.Error("shader without code")
	}
}

func TestOptions(t *testing.T) {
	d := New(WithGammaCorrection(false), WithBloom(false), WithDisplaySize(100, 50))
	if d.IsGammaCorrectionEnabled() || d.IsBloomEnabled() {
		t.Error("options not applied")
	}
	if vp := d.Display().Viewport(); vp.Width != 100 || vp.Height != 50 {
		t.Errorf("display viewport = %s", vp)
	}
	if d.Display().Kind() != metadata.RenderTargetDisplay {
		t.Errorf("display kind = %s", d.Display().Kind())
	}
}
