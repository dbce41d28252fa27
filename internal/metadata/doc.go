// Package metadata provides Dict, the ordered key/value container attached to
// decoded images. Keys can be read and written through explicit attribute-style
// accessors in addition to plain key access, with a statically known reserved
// set protecting the container's own method surface.
package metadata
