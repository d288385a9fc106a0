package corpus

import (
	"bytes"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// WordCount pairs an indexed word with its number of occurrences.
type WordCount struct {
	Word  string
	Count int
}

// buildIndex splits the text on whitespace into a patricia trie of word counts.
// It runs once, on first use.
func (c *Corpus) buildIndex() {
	c.indexOnce.Do(func() {
		trie := patricia.NewTrie()
		total := 0
		for _, field := range bytes.Fields(c.Text) {
			key := patricia.Prefix(string(field))
			if item := trie.Get(key); item != nil {
				trie.Set(key, item.(int)+1)
			} else {
				trie.Insert(key, 1)
			}
			total++
		}
		c.index = trie
		c.words = total
		log.Debugf("Indexed %d words of corpus %s", total, c.Name)
	})
}

// Words returns the number of whitespace separated words in the corpus.
func (c *Corpus) Words() int {
	c.buildIndex()
	return c.words
}

// HasWord reports whether word occurs as a whole word.
func (c *Corpus) HasWord(word string) bool {
	c.buildIndex()
	return c.index.Get(patricia.Prefix(word)) != nil
}

// WordsWithPrefix returns up to limit distinct words starting with prefix,
// most frequent first. limit <= 0 returns all of them.
func (c *Corpus) WordsWithPrefix(prefix string, limit int) []WordCount {
	c.buildIndex()

	var out []WordCount
	err := c.index.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		out = append(out, WordCount{Word: string(p), Count: item.(int)})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting word index: %v", err)
		return nil
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
