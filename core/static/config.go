package static

// Config mirrors the Dir options so a handler can be configured from the
// environment with core/config.
type Config struct {
	Root               string `env:"STATIC_ROOT" envDefault:"./public"`
	StripPrefix        string `env:"STATIC_STRIP_PREFIX"`
	Dotfiles           bool   `env:"STATIC_DOTFILES" envDefault:"false"`
	Autoindex          bool   `env:"STATIC_AUTOINDEX" envDefault:"false"`
	AutoindexExactSize bool   `env:"STATIC_AUTOINDEX_EXACT_SIZE" envDefault:"true"`
	AutoindexLocaltime bool   `env:"STATIC_AUTOINDEX_LOCALTIME" envDefault:"false"`
	AutoindexFormat    Format `env:"STATIC_AUTOINDEX_FORMAT" envDefault:"html"`
	FollowSymlink      bool   `env:"STATIC_FOLLOW_SYMLINK" envDefault:"false"`
	IndexFile          string `env:"STATIC_INDEX_FILE" envDefault:"index.html"`
}

// DefaultConfig returns the defaults used by Dir.
func DefaultConfig() Config {
	return Config{
		Root:               "./public",
		AutoindexExactSize: true,
		AutoindexFormat:    FormatHTML,
		IndexFile:          "index.html",
	}
}

// WithConfig applies every field of cfg except Root, which is passed to Dir
// directly.
func WithConfig(cfg Config) DirOption {
	return func(c *dirConfig) {
		c.stripPrefix = cfg.StripPrefix
		c.dotfiles = cfg.Dotfiles
		c.autoindex = cfg.Autoindex
		c.exactSize = cfg.AutoindexExactSize
		c.localtime = cfg.AutoindexLocaltime
		c.format = cfg.AutoindexFormat
		c.followSymlink = cfg.FollowSymlink
		c.indexFile = cfg.IndexFile
	}
}
