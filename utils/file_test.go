package utils

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestGetFilenameWithoutExt(t *testing.T) {
	assert.Equal(t, "sites", GetFilenameWithoutExt("/data/sites.shp"))
	assert.Equal(t, "sites", GetFilenameWithoutExt("sites"))
}

func TestGetUniqSubDir(t *testing.T) {
	parent := t.TempDir()
	a, err := GetUniqSubDir(parent)
	require.NoError(t, err)
	b, err := GetUniqSubDir(parent)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	fi, err := os.Stat(a)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestUnzip(t *testing.T) {
	dir := t.TempDir()
	zp := filepath.Join(dir, "pack.zip")
	writeTestZip(t, zp, map[string]string{
		"inner/sites.shp": "shp-bytes",
		"inner/sites.dbf": "dbf-bytes",
	})
	dst := t.TempDir()
	files, err := Unzip(zp, dst)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	// 解压时拍平目录
	data, err := os.ReadFile(filepath.Join(dst, "sites.shp"))
	require.NoError(t, err)
	assert.Equal(t, "shp-bytes", string(data))
}

func TestGetShpInZip(t *testing.T) {
	dir := t.TempDir()
	zp := filepath.Join(dir, "pack.zip")
	writeTestZip(t, zp, map[string]string{
		"sites.shp": "shp-bytes",
		"sites.cpg": "UTF-8\n",
	})
	dst := t.TempDir()
	path, utf8, err := GetShpInZip(zp, dst)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dst, "sites.shp"), path)
	assert.True(t, utf8)
	// zip包用过即删
	_, err = os.Stat(zp)
	assert.True(t, os.IsNotExist(err))
}

func TestGetShpInZipMissing(t *testing.T) {
	dir := t.TempDir()
	zp := filepath.Join(dir, "pack.zip")
	writeTestZip(t, zp, map[string]string{"readme.txt": "x"})
	_, _, err := GetShpInZip(zp, t.TempDir())
	assert.ErrorIs(t, err, ErrNoShpInZip)
}
