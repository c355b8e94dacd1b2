package known

// Fallback is the Table key used when the GOOS has no entry.
const Fallback = "*"

// SourceKind selects how a Source is evaluated.
type SourceKind int

const (
	// SourceEnv reads an environment variable. Empty values are unset.
	SourceEnv SourceKind = iota
	// SourceHome is relative to the user's home directory.
	SourceHome
	// SourceTemp is the temporary directory.
	SourceTemp
	// SourceWorkingDir is the process working directory.
	SourceWorkingDir
	// SourceAbs is a fixed path.
	SourceAbs
)

// Source is one way of locating a directory. Elem is joined below the
// base the kind yields.
type Source struct {
	Kind SourceKind
	Name string
	Elem []string
}

// Env reads the variable name and joins elem below its value.
func Env(name string, elem ...string) Source {
	return Source{Kind: SourceEnv, Name: name, Elem: elem}
}

// HomeRel joins elem below the home directory.
func HomeRel(elem ...string) Source {
	return Source{Kind: SourceHome, Elem: elem}
}

// TempDir is the temporary directory.
func TempDir() Source {
	return Source{Kind: SourceTemp}
}

// WorkingDir is the working directory.
func WorkingDir() Source {
	return Source{Kind: SourceWorkingDir}
}

// Abs is the fixed path p.
func Abs(p string) Source {
	return Source{Kind: SourceAbs, Name: p}
}

// Template lists sources in priority order.
type Template []Source

// Table maps a GOOS to the templates of the directories it defines.
type Table map[string]map[Dir]Template

// DefaultTable returns the built-in layouts for linux, darwin and windows
// plus a Fallback for other platforms. Linux honors the XDG variables.
func DefaultTable() Table {
	return Table{
		"linux": {
			Home:      {Env("HOME"), HomeRel()},
			Documents: {Env("XDG_DOCUMENTS_DIR"), HomeRel("Documents")},
			Library:   {Env("XDG_DATA_HOME"), HomeRel(".local", "share")},
			Cache:     {Env("XDG_CACHE_HOME"), HomeRel(".cache")},
			Config:    {Env("XDG_CONFIG_HOME"), HomeRel(".config")},
			Temp:      {Env("TMPDIR"), TempDir()},
			Desktop:   {Env("XDG_DESKTOP_DIR"), HomeRel("Desktop")},
			Downloads: {Env("XDG_DOWNLOAD_DIR"), HomeRel("Downloads")},
			User:      {Abs("/home")},
			Current:   {WorkingDir()},
		},
		"darwin": {
			Home:      {Env("HOME"), HomeRel()},
			Documents: {HomeRel("Documents")},
			Library:   {HomeRel("Library")},
			Cache:     {HomeRel("Library", "Caches")},
			Config:    {HomeRel("Library", "Application Support")},
			Temp:      {Env("TMPDIR"), TempDir()},
			Desktop:   {HomeRel("Desktop")},
			Downloads: {HomeRel("Downloads")},
			User:      {Abs("/Users")},
			Current:   {WorkingDir()},
		},
		"windows": {
			Home:      {Env("USERPROFILE"), HomeRel()},
			Documents: {HomeRel("Documents")},
			Library:   {Env("APPDATA")},
			Cache:     {Env("LOCALAPPDATA")},
			Config:    {Env("APPDATA")},
			Temp:      {Env("TEMP"), Env("TMP"), TempDir()},
			Desktop:   {HomeRel("Desktop")},
			Downloads: {HomeRel("Downloads")},
			User:      {Env("PUBLIC", "..")},
			Current:   {WorkingDir()},
		},
		Fallback: {
			Home:    {Env("HOME"), HomeRel()},
			Cache:   {HomeRel(".cache")},
			Config:  {HomeRel(".config")},
			Temp:    {TempDir()},
			Current: {WorkingDir()},
		},
	}
}
