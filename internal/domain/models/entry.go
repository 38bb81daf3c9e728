package models

// Entry is a child of a folder: either a Folder or a File.
// The interface is sealed; consumers switch on the concrete type.
type Entry interface {
	EntryID() int64
	EntryName() string
	isEntry()
}

func (f Folder) EntryID() int64    { return f.ID }
func (f Folder) EntryName() string { return f.Name }
func (Folder) isEntry()            {}

func (f File) EntryID() int64    { return f.ID }
func (f File) EntryName() string { return f.Name }
func (File) isEntry()            {}
