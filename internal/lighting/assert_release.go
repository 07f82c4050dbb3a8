//go:build !lightdebug

package lighting

const debugAssertions = false
