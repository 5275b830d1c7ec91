package shader

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const lineVertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 aPosition;
void main() {
    gl_Position = vec4(aPosition, 0.0, 1.0);
}
`

const lineFragmentShaderSourceGL = `#version 410 core
uniform vec4 uColor;
out vec4 fragColor;
void main() {
    fragColor = uColor;
}
`

// Fullscreen quad used to present the offscreen frame in the window.
const blitVertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const lineVertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec2 aPosition;
void main() {
    gl_Position = vec4(aPosition, 0.0, 1.0);
}
`

const lineFragmentShaderSourceGLES = `#version 300 es
precision mediump float;
uniform vec4 uColor;
out vec4 fragColor;
void main() {
    fragColor = uColor;
}
`

const blitVertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSourceGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// ────────────────────────────────── Public API ─────────────────────────────────

// Names the renderer looks up after linking.
const (
	PositionAttrib = "aPosition"
	ColorUniform   = "uColor"
	TextureUniform = "u_texture"
)

// Source is a vertex/fragment pair ready to be compiled and linked.
type Source struct {
	Vertex   string
	Fragment string
}

// Line returns the flat-color program that draws the stroke strip.
func Line(isGLES bool) Source {
	if isGLES {
		return Source{lineVertexShaderSourceGLES, lineFragmentShaderSourceGLES}
	}
	return Source{lineVertexShaderSourceGL, lineFragmentShaderSourceGL}
}

// Blit returns the program that copies the offscreen texture to the window.
func Blit(isGLES bool) Source {
	if isGLES {
		return Source{blitVertexShaderSourceGLES, blitFragmentShaderSourceGLES}
	}
	return Source{blitVertexShaderSourceGL, blitFragmentShaderSourceGL}
}
