package handlers

import "testing"

func TestProfileUploadFolderDefault(t *testing.T) {
	if got := profileUploadFolder(); got != "tutormatch_profiles" {
		t.Errorf("default upload folder = %q, want tutormatch_profiles", got)
	}
}

func TestProfileUploadFolderFromConfig(t *testing.T) {
	t.Setenv("UPLOAD_PROFILE_FOLDER", "staging_profiles")
	if got := profileUploadFolder(); got != "staging_profiles" {
		t.Errorf("upload folder = %q, want staging_profiles", got)
	}
}
