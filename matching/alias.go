package matching

// AliasTable maps normalized "title|artist" keys to a replacement catalog
// search query. It exists for songs whose comment-section spelling never
// matches their catalog entry (stylized titles, romanizations). The table is
// optional enrichment data: an empty table is valid and the matching core
// never depends on it.
type AliasTable struct {
	entries map[string]string
}

// NewAliasTable builds a table from raw title/artist -> query entries.
// Keys are normalized on insertion so lookups are spelling-insensitive.
func NewAliasTable(entries map[[2]string]string) *AliasTable {
	t := &AliasTable{entries: make(map[string]string, len(entries))}
	for key, query := range entries {
		t.entries[aliasKey(key[0], key[1])] = query
	}
	return t
}

// Lookup returns the replacement search query for a track, if one is known.
func (t *AliasTable) Lookup(title, artist string) (string, bool) {
	if t == nil || len(t.entries) == 0 {
		return "", false
	}
	query, ok := t.entries[aliasKey(title, artist)]
	return query, ok
}

func aliasKey(title, artist string) string {
	return Normalize(title) + "|" + Normalize(artist)
}
