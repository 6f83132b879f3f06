// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Fragment is a piece of HTML produced by the block or branding renderers.
// Block text and custom hrefs are interpolated verbatim so placeholder tokens
// survive until send time; the consuming surface applies its own sanitize
// policy before injecting a Fragment anywhere.
type Fragment string

// String returns the fragment markup.
func (f Fragment) String() string { return string(f) }

// Empty reports whether the fragment renders nothing.
func (f Fragment) Empty() bool { return f == "" }
