// SPDX-License-Identifier: MPL-2.0

// Package builder turns a recipe plus an application source tree into a
// container image. Images are content-addressed: the tag embeds a hash of the
// rendered Dockerfile, the dependency manifest, and the source tree, so an
// unchanged application reuses its cached image instead of rebuilding.
package builder
