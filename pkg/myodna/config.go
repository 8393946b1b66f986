package myodna

import "os"

// DefaultDataRoot is where reference signals live unless the caller or
// the MYO_DATA_ROOT environment variable says otherwise.
const DefaultDataRoot = "myodna_data"

type Config struct {
	DataRoot    string
	JournalPath string
	Logger      Logger
	Datastore   Datastore
	Journal     Recorder
}

type Option func(*Config)

func WithDataRoot(dir string) Option {
	return func(c *Config) {
		c.DataRoot = dir
	}
}

// WithJournalPath enables event journaling into a sqlite file at path.
func WithJournalPath(path string) Option {
	return func(c *Config) {
		c.JournalPath = path
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithDatastore(store Datastore) Option {
	return func(c *Config) {
		c.Datastore = store
	}
}

func WithJournal(rec Recorder) Option {
	return func(c *Config) {
		c.Journal = rec
	}
}

func defaultConfig() *Config {
	root := os.Getenv("MYO_DATA_ROOT")
	if root == "" {
		root = DefaultDataRoot
	}
	return &Config{
		DataRoot:    root,
		JournalPath: os.Getenv("MYO_JOURNAL_PATH"),
		Logger:      nil,
	}
}
