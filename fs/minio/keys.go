package minio

import (
	"path"
	"strings"
)

// normalize turns a provider name into a key fragment: forward slashes,
// cleaned, without leading or trailing slashes. The root is ".".
func normalize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.Trim(path.Clean("/"+name), "/")
	if name == "" {
		return "."
	}
	return name
}

// normalizePrefix is normalize with the root mapped to "".
func normalizePrefix(prefix string) string {
	if p := normalize(prefix); p != "." {
		return p
	}
	return ""
}

// joinKey joins a filesystem prefix and a name into an object key.
func joinKey(prefix, name string) string {
	name = normalize(name)
	switch {
	case name == ".":
		return prefix
	case prefix == "":
		return name
	default:
		return prefix + "/" + name
	}
}

// dirPrefix returns the listing prefix for the directory at key.
func dirPrefix(key string) string {
	if key == "" || strings.HasSuffix(key, "/") {
		return key
	}
	return key + "/"
}
