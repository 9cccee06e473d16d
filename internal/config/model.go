package config

var defaultConfig = Config{
	IconCaches:       3,
	IconCacheEntries: 12,
	Programs:         []Program{},
}

type Config struct {
	// Icon cache shape negotiated at session setup.
	IconCaches       uint32 `yaml:"icon_caches" json:"icon_caches"`
	IconCacheEntries uint32 `yaml:"icon_cache_entries" json:"icon_cache_entries"`

	// Programs requested on handshake.
	Programs []Program `yaml:"programs" json:"programs"`
}

type Program struct {
	UUID       string `yaml:"uuid" json:"uuid"`
	Exec       string `yaml:"exec" json:"exec"`
	Args       string `yaml:"args" json:"args"`
	WorkingDir string `yaml:"working_dir" json:"working_dir"`
}
