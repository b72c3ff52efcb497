package passes

import (
	"fmt"

	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

/**
 * @brief Copies attachment 0 of the source into the destination.
 */
func BlitShader() *metadata.ImageShader {
	return &metadata.ImageShader{
		Name:     "blit",
		Samplers: []string{"source_texture"},
		Code: []string{
			"uniform sampler2D source_texture;",
			"frag_color = texture(source_texture, v_texcoord);",
		},
	}
}

/**
 * @brief Adds the blurred bright pass back into the HDR colour.
 */
func AdditiveBlendShader() *metadata.ImageShader {
	return &metadata.ImageShader{
		Name:     "additive_blend",
		Samplers: []string{"hdr_texture", "bloom_texture"},
		Code: []string{
			"uniform sampler2D hdr_texture;",
			"uniform sampler2D bloom_texture;",
			"highp vec3 hdr_color = texture(hdr_texture, v_texcoord).rgb;",
			"highp vec3 bloom_color = texture(bloom_texture, v_texcoord).rgb;",
			"frag_color = vec4(hdr_color + bloom_color, 1.0);",
		},
	}
}

// GaussianBlurShader is one direction of a separable 9-tap blur, sampling
// between texels so each fetch covers two weights.
func GaussianBlurShader(horizontal bool) *metadata.ImageShader {
	name, offset := "gaussian_blur_vertical", "vec2(0.0, texel.y)"
	if horizontal {
		name, offset = "gaussian_blur_horizontal", "vec2(texel.x, 0.0)"
	}
	return &metadata.ImageShader{
		Name:     name,
		Samplers: []string{"image"},
		Code: []string{
			"uniform sampler2D image;",
			"const highp float offsets[3] = float[](0.0, 1.3846153846, 3.2307692308);",
			"const highp float weights[3] = float[](0.2270270270, 0.3162162162, 0.0702702703);",
			"highp vec2 texel = 1.0 / vec2(textureSize(image, 0));",
			"highp vec2 dir = " + offset + ";",
			"highp vec3 result = texture(image, v_texcoord).rgb * weights[0];",
			"for (int i = 1; i < 3; ++i) {",
			"    result += texture(image, v_texcoord + dir * offsets[i]).rgb * weights[i];",
			"    result += texture(image, v_texcoord - dir * offsets[i]).rgb * weights[i];",
			"}",
			"frag_color = vec4(result, 1.0);",
		},
	}
}

// ToneMappingShader compresses HDR colour into display range with the given
// operator and applies gamma correction.
func ToneMappingShader(method metadata.ToneMappingMethod) *metadata.ImageShader {
	code := []string{
		"uniform sampler2D hdr_texture;",
		"uniform highp float exposure;",
		"uniform highp float white_point;",
		"uniform highp float gamma;",
		"highp vec3 hdr_color = texture(hdr_texture, v_texcoord).rgb * exposure;",
	}
	switch method {
	case metadata.ToneMappingReinhard:
		code = append(code,
			"highp vec3 mapped = hdr_color * (1.0 + hdr_color / (white_point * white_point)) / (1.0 + hdr_color);",
		)
	case metadata.ToneMappingHable:
		code = append(code,
			"highp vec3 x = hdr_color;",
			"highp vec3 curve = ((x * (0.15 * x + 0.05) + 0.004) / (x * (0.15 * x + 0.50) + 0.06)) - 0.0667;",
			"highp float w = white_point * 11.2;",
			"highp float white = ((w * (0.15 * w + 0.05) + 0.004) / (w * (0.15 * w + 0.50) + 0.06)) - 0.0667;",
			"highp vec3 mapped = curve / white;",
		)
	case metadata.ToneMappingExponential:
		code = append(code,
			"highp vec3 mapped = vec3(1.0) - exp(-hdr_color / white_point);",
		)
	default:
		code = append(code,
			"highp vec3 mapped = hdr_color;",
		)
	}
	code = append(code,
		"frag_color = vec4(pow(mapped, vec3(1.0 / gamma)), 1.0);",
	)
	return &metadata.ImageShader{
		Name:     "tone_mapping_" + method.String(),
		Samplers: []string{"hdr_texture"},
		Code:     code,
	}
}

var effectCode = map[metadata.PostProcessEffect][]string{
	metadata.EffectGrayscale: {
		"highp vec4 color = texture(source_texture, v_texcoord);",
		"highp float luma = dot(color.rgb, vec3(0.2126, 0.7152, 0.0722));",
		"frag_color = vec4(vec3(luma), color.a);",
	},
	metadata.EffectSepia: {
		"highp vec4 color = texture(source_texture, v_texcoord);",
		"highp vec3 sepia = vec3(dot(color.rgb, vec3(0.393, 0.769, 0.189)),",
		"                        dot(color.rgb, vec3(0.349, 0.686, 0.168)),",
		"                        dot(color.rgb, vec3(0.272, 0.534, 0.131)));",
		"frag_color = vec4(sepia, color.a);",
	},
	metadata.EffectSinCity: {
		"highp vec4 color = texture(source_texture, v_texcoord);",
		"highp float luma = dot(color.rgb, vec3(0.2126, 0.7152, 0.0722));",
		"bool red = color.r > 0.5 && color.g < 0.35 && color.b < 0.35;",
		"frag_color = red ? color : vec4(vec3(luma), color.a);",
	},
	metadata.EffectBarrelDistortion: {
		"highp vec2 uv = v_texcoord * 2.0 - 1.0;",
		"highp float r2 = dot(uv, uv);",
		"uv = uv * (1.0 + 0.2 * r2);",
		"frag_color = texture(source_texture, uv * 0.5 + 0.5);",
	},
	metadata.EffectPincushionDistortion: {
		"highp vec2 uv = v_texcoord * 2.0 - 1.0;",
		"highp float r2 = dot(uv, uv);",
		"uv = uv * (1.0 - 0.2 * r2);",
		"frag_color = texture(source_texture, uv * 0.5 + 0.5);",
	},
	metadata.EffectThermalVision: {
		"highp vec4 color = texture(source_texture, v_texcoord);",
		"highp float luma = dot(color.rgb, vec3(0.2126, 0.7152, 0.0722));",
		"highp vec3 cold = mix(vec3(0.0, 0.0, 1.0), vec3(1.0, 1.0, 0.0), smoothstep(0.0, 0.5, luma));",
		"frag_color = vec4(mix(cold, vec3(1.0, 0.0, 0.0), smoothstep(0.5, 1.0, luma)), color.a);",
	},
	metadata.EffectCrossHatch: {
		"highp float luma = dot(texture(source_texture, v_texcoord).rgb, vec3(0.2126, 0.7152, 0.0722));",
		"highp vec2 p = gl_FragCoord.xy;",
		"highp float ink = 1.0;",
		"if (luma < 0.8 && mod(p.x + p.y, 10.0) == 0.0) ink = 0.0;",
		"if (luma < 0.6 && mod(p.x - p.y, 10.0) == 0.0) ink = 0.0;",
		"if (luma < 0.3 && mod(p.x + p.y - 5.0, 10.0) == 0.0) ink = 0.0;",
		"frag_color = vec4(vec3(ink), 1.0);",
	},
	metadata.EffectPixelated: {
		"highp vec2 cells = vec2(textureSize(source_texture, 0)) / 8.0;",
		"frag_color = texture(source_texture, (floor(v_texcoord * cells) + 0.5) / cells);",
	},
	metadata.EffectToonify: {
		"highp vec4 color = texture(source_texture, v_texcoord);",
		"frag_color = vec4(floor(color.rgb * 4.0) / 4.0, color.a);",
	},
	metadata.EffectEmboss: {
		"highp vec2 texel = 1.0 / vec2(textureSize(source_texture, 0));",
		"highp vec3 a = texture(source_texture, v_texcoord - texel).rgb;",
		"highp vec3 b = texture(source_texture, v_texcoord + texel).rgb;",
		"highp float e = dot(b - a, vec3(0.333)) + 0.5;",
		"frag_color = vec4(vec3(e), 1.0);",
	},
}

// EffectShader returns the program of a built-in post process effect.
func EffectShader(effect metadata.PostProcessEffect) (*metadata.ImageShader, error) {
	body, ok := effectCode[effect]
	if !ok {
		return nil, fmt.Errorf("effect %s: %w", effect, core.ErrUnknownEffect)
	}
	code := make([]string, 0, len(body)+1)
	code = append(code, "uniform sampler2D source_texture;")
	code = append(code, body...)
	return &metadata.ImageShader{
		Name:     "effect_" + effect.String(),
		Samplers: []string{"source_texture"},
		Code:     code,
	}, nil
}
