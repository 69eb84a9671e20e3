// Package captions synchronizes a chunked caption display to an
// independently-progressing media resource.
//
// A script is split into fixed-size word chunks; an Engagement paces the
// chunks across the media's duration and loops them until the engagement
// ends. Each engagement owns exactly one periodic handle, torn down
// unconditionally on Stop, so rapid engage/disengage cycles cannot leak
// timers or stack duplicate callbacks.
package captions
