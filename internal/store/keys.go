package store

import "fmt"

// Key layout. Entity records live under a short type prefix; secondary
// indexes live under "<prefix>idx:<name>:" and hold the entity ID (or the
// entity itself where noted) so prefix scans return them in key order.
const (
	prefixProject = "prj:"
	prefixChar    = "chr:"
	prefixChapter = "chp:"
	prefixBlob    = "blob:"
	prefixMaster  = "master:"

	idxCharProject    = "chr:idx:project:"
	idxChapterProject = "chp:idx:project:"
	idxBlobSource     = "blob:idx:source:"
)

func projectKey(id string) []byte { return []byte(prefixProject + id) }
func charKey(id string) []byte    { return []byte(prefixChar + id) }
func chapterKey(id string) []byte { return []byte(prefixChapter + id) }
func blobKey(id string) []byte    { return []byte(prefixBlob + id) }
func masterKey(id string) []byte  { return []byte(prefixMaster + id) }

// charProjectIdxKey indexes characters by project for roster listing.
func charProjectIdxKey(projectID, charID string) []byte {
	return []byte(idxCharProject + projectID + ":" + charID)
}

// chapterProjectIdxKey indexes chapters by project. The position is
// zero-padded so a prefix scan yields chapters in script order.
func chapterProjectIdxKey(projectID string, position int, chapterID string) []byte {
	return []byte(fmt.Sprintf("%s%s:%06d:%s", idxChapterProject, projectID, position, chapterID))
}

// blobSourceIdxKey indexes blobs by the master file they were sliced from,
// which is what makes cleanup-before-write a single prefix scan.
func blobSourceIdxKey(sourceID, blobID string) []byte {
	return []byte(idxBlobSource + sourceID + ":" + blobID)
}
