// Package dataset loads the feature vectors fed to the clustering engine.
//
// Vectors come from CSV files (ReadCSV, LoadCSV) or from a SQLite store of
// named datasets (Store). The store holds input data only; partitions and
// quality reports are always recomputed.
package dataset
