package shadertest

// Fixture sources. Vertex and Fragment link together; Fragment declares the
// uniform "time" and the vertex stage declares "xOffset" and "flip".
const (
	Vertex = `#version 330 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;

uniform float xOffset;
uniform bool flip;

out vec3 vertexColor;

void main()
{
    float y = flip ? -aPos.y : aPos.y;
    gl_Position = vec4(aPos.x + xOffset, y, aPos.z, 1.0);
    vertexColor = aColor;
}
`

	Fragment = `#version 330 core
in vec3 vertexColor;
out vec4 FragColor;

uniform float time;

void main()
{
    FragColor = vec4(vertexColor * (sin(time) / 2.0 + 0.5), 1.0);
}
`

	// FragmentUnusedUniform declares "unused" without reading it.
	FragmentUnusedUniform = `#version 330 core
in vec3 vertexColor;
out vec4 FragColor;

uniform float unused;

void main()
{
    FragColor = vec4(vertexColor, 1.0);
}
`

	// VertexSharedTime declares "time" without reading it, so only the
	// fragment stage keeps the uniform active when paired with Fragment.
	VertexSharedTime = `#version 330 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;

uniform float time;

out vec3 vertexColor;

void main()
{
    gl_Position = vec4(aPos, 1.0);
    vertexColor = aColor;
}
`

	// FragmentMismatched reads an input the vertex stage never writes.
	FragmentMismatched = `#version 330 core
in vec2 texCoord;
out vec4 FragColor;

void main()
{
    FragColor = vec4(texCoord, 0.0, 1.0);
}
`

	// VertexSyntaxError is missing a closing brace.
	VertexSyntaxError = `#version 330 core
layout (location = 0) in vec3 aPos;

void main()
{
    gl_Position = vec4(aPos, 1.0);
`

	// FragmentSyntaxError trips the #error directive.
	FragmentSyntaxError = `#version 330 core
out vec4 FragColor;
#error unexpected token
void main()
{
    FragColor = vec4(1.0);
}
`
)
