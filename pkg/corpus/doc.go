// Package corpus flattens cached review pages into a sentence-level dataset.
//
// Each non-free review becomes one SentenceRow per sentence, with the review's
// id, author statistics, vote and update timestamp copied onto every row.
// Sentence boundaries come from a Splitter; PunktSplitter wraps the English
// punkt model from github.com/neurosnap/sentences.
package corpus
