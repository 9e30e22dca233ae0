// Package model defines the core data structures used throughout
// the vocal-isolator application.
//
// # Catalog
//
// Catalog is the fixed group → members table that drives the first two
// prompts. It is loaded once and never mutated:
//
//	cat := model.NewCatalog([]model.Group{
//	    {Name: "ITZY", Members: []string{"Yeji", "Lia"}},
//	})
//	members, ok := cat.Members("ITZY") // ["Yeji", "Lia"], true
//
// # Selection
//
// Selection is the (group, member, song) triple built across the prompts.
// Every location the tool touches is derived from it and a Layout:
//
//	sel := model.Selection{Group: "ITZY", Member: "Yeji", Song: "Track1.mp3"}
//	sel.TrainingDir(layout) // <base>/ITZY/Yeji/train
//	sel.OutputPath(layout)  // <base>/ITZY/Yeji/train/Isolated_Vocals/Track1_Isolated_Vocals.mp3
//
// # Layout
//
// Layout holds the fixed names of the on-disk tree: base directory,
// training and output subfolders, output suffix, audio extension and the
// marker that excludes instrumental tracks.
package model
