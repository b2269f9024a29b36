package lores

const vertex = `
#version 460

in  vec3 vertPos;
in  vec2 vertTexCoord;
out vec2 fragTexCoord;

void main() {
    fragTexCoord = vertTexCoord;
    gl_Position  = vec4(vertPos, 1);
}
`

const fragment = `
#version 460

uniform vec4 palette[2];

layout (binding = 0) uniform sampler2D screen;

in  vec2 fragTexCoord;
out vec4 outputColor;

void main() {
    // Pixels are stored as 0 or 255 in the red channel.
    float on = step(0.5, texture(screen, fragTexCoord).r);
    outputColor = mix(palette[0], palette[1], on);
}
`
