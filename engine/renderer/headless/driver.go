// Package headless implements the renderer driver contract without a GPU. Every
// call is validated the way a device backend would validate it and appended to
// a command log, which makes it usable for dry runs, tooling and tests.
package headless

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

type Op int

const (
	OpCreateTarget Op = iota
	OpDestroyTarget
	OpSetViewport
	OpBind
	OpClear
	OpDiscard
	OpAttachTexture
	OpSetLayer
	OpBlitColor
	OpCompile
	OpPostProcess
	OpUnbindShader
)

func (o Op) String() string {
	switch o {
	case OpCreateTarget:
		return "create_target"
	case OpDestroyTarget:
		return "destroy_target"
	case OpSetViewport:
		return "set_viewport"
	case OpBind:
		return "bind"
	case OpClear:
		return "clear"
	case OpDiscard:
		return "discard"
	case OpAttachTexture:
		return "attach_texture"
	case OpSetLayer:
		return "set_layer"
	case OpBlitColor:
		return "blit_color"
	case OpCompile:
		return "compile"
	case OpPostProcess:
		return "post_process"
	case OpUnbindShader:
		return "unbind_shader"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Command is one recorded driver call.
type Command struct {
	Op         Op
	Target     string
	Dest       string
	Program    string
	Inputs     []string
	Layer      int
	Attachment int
	FlipY      bool
	Viewport   metadata.Viewport
}

func (c Command) String() string {
	var b strings.Builder
	b.WriteString(c.Op.String())
	if c.Target != "" {
		fmt.Fprintf(&b, " %s", c.Target)
	}
	if c.Program != "" {
		fmt.Fprintf(&b, " program=%s", c.Program)
	}
	if c.Dest != "" {
		fmt.Fprintf(&b, " -> %s", c.Dest)
	}
	switch c.Op {
	case OpSetViewport:
		fmt.Fprintf(&b, " %s", c.Viewport)
	case OpSetLayer:
		fmt.Fprintf(&b, " layer=%d", c.Layer)
	case OpBlitColor:
		fmt.Fprintf(&b, " flip=%t", c.FlipY)
	}
	if len(c.Inputs) > 0 {
		fmt.Fprintf(&b, " inputs=%s", strings.Join(c.Inputs, ","))
	}
	return b.String()
}

type options struct {
	gammaCorrection bool
	bloom           bool
	display         metadata.Viewport
}

type Option func(*options)

func WithGammaCorrection(enabled bool) Option {
	return func(o *options) {
		o.gammaCorrection = enabled
	}
}

func WithBloom(enabled bool) Option {
	return func(o *options) {
		o.bloom = enabled
	}
}

func WithDisplaySize(width, height int32) Option {
	return func(o *options) {
		o.display = metadata.NewViewport(0, 0, width, height)
	}
}

// Driver records every call made through the renderer.Driver contract.
type Driver struct {
	opts     options
	commands []Command
	display  *Target
	bound    *Target
	targets  []*Target

	nextTargetID  uint32
	nextTextureID uint32
}

func New(opts ...Option) *Driver {
	o := options{
		gammaCorrection: true,
		bloom:           true,
		display:         metadata.NewViewport(0, 0, 1280, 720),
	}
	for _, opt := range opts {
		opt(&o)
	}
	d := &Driver{opts: o}
	d.display = &Target{
		driver:      d,
		name:        "display",
		kind:        metadata.RenderTargetDisplay,
		attachments: make([]*metadata.Texture, 1),
		layers:      1,
		multisample: true,
		viewport:    o.display,
	}
	return d
}

func (d *Driver) NewRenderTarget(kind metadata.RenderTargetKind, attachmentCount, layers int) (renderer.RenderTarget, error) {
	t, err := newTarget(d, kind, attachmentCount, layers)
	if err != nil {
		return nil, err
	}
	d.targets = append(d.targets, t)
	d.record(Command{Op: OpCreateTarget, Target: t.name, Layer: layers, Attachment: attachmentCount})
	core.LogDebug("headless: created %s (%s, %d attachment(s), %d layer(s))", t.name, t.FormatName(), attachmentCount, layers)
	return t, nil
}

func (d *Driver) NewImagePostProcess(shader *metadata.ImageShader) (renderer.ImagePostProcess, error) {
	if shader == nil || shader.Name == "" {
		return nil, fmt.Errorf("image post process requires a named shader")
	}
	if len(shader.Code) == 0 {
		return nil, fmt.Errorf("image shader '%s' has no code", shader.Name)
	}
	d.record(Command{Op: OpCompile, Program: shader.Name, Inputs: append([]string(nil), shader.Samplers...)})
	return &PostProcess{
		driver:   d,
		shader:   shader,
		uniforms: make(map[string]float32),
	}, nil
}

func (d *Driver) Display() renderer.RenderTarget {
	return d.display
}

func (d *Driver) UnbindShader() {
	d.record(Command{Op: OpUnbindShader})
}

func (d *Driver) IsGammaCorrectionEnabled() bool {
	return d.opts.gammaCorrection
}

func (d *Driver) IsBloomEnabled() bool {
	return d.opts.bloom
}

// Commands returns a copy of the recorded command log.
func (d *Driver) Commands() []Command {
	return append([]Command(nil), d.commands...)
}

// Reset clears the command log; targets stay alive.
func (d *Driver) Reset() {
	d.commands = d.commands[:0]
}

// Bound returns the target currently bound for drawing, or nil.
func (d *Driver) Bound() renderer.RenderTarget {
	if d.bound == nil {
		return nil
	}
	return d.bound
}

// LiveTargets returns the number of created targets not yet destroyed.
func (d *Driver) LiveTargets() int {
	n := 0
	for _, t := range d.targets {
		if !t.destroyed {
			n++
		}
	}
	return n
}

// Count returns how many recorded commands have the given op and target.
// An empty target matches any target.
func (d *Driver) Count(op Op, target string) int {
	n := 0
	for _, c := range d.commands {
		if c.Op == op && (target == "" || c.Target == target) {
			n++
		}
	}
	return n
}

// Dump renders the command log, one command per line.
func (d *Driver) Dump() string {
	lines := make([]string, len(d.commands))
	for i, c := range d.commands {
		lines[i] = c.String()
	}
	return strings.Join(lines, "\n")
}

func (d *Driver) record(c Command) {
	d.commands = append(d.commands, c)
}

func (d *Driver) newTexture(kind metadata.RenderTargetKind, viewport metadata.Viewport, layers int) *metadata.Texture {
	d.nextTextureID++
	return &metadata.Texture{
		ID:     d.nextTextureID,
		Name:   uuid.New().String(),
		Kind:   kind,
		Width:  uint32(max(viewport.Width, 0)),
		Height: uint32(max(viewport.Height, 0)),
		Layers: uint32(layers),
	}
}
