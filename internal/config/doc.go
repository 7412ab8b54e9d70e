// Package config loads journaling options from CUE files.
//
// A config directory holds one CUE package declaring the journaled entity
// types and the attribute filters applied to each:
//
//	package app
//
//	journaled: User: {
//		only:              ["first_name", "last_name"]
//		except:            ["last_name"]
//		journal_on_create: false
//	}
//
// Every field of a type block is optional. An empty block journals every
// attribute except the reserved timestamps.
package config
