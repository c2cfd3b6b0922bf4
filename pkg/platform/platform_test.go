package platform

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arc-language/wfnconf/pkg/core"
)

func TestDetectFor(t *testing.T) {
	for _, goos := range Supported() {
		p, err := DetectFor(goos, "arm64")
		require.NoError(t, err)
		require.Equal(t, goos, p.OS)
		require.Equal(t, goos+"/arm64", p.String())
	}
}

func TestDetectFor_DefaultsArch(t *testing.T) {
	p, err := DetectFor("linux", "")
	require.NoError(t, err)
	require.Equal(t, runtime.GOARCH, p.Arch)
}

func TestDetectFor_Unsupported(t *testing.T) {
	_, err := DetectFor("plan9", "386")

	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnsupported))
	require.Equal(t, `platform "plan9" is not supported`, err.Error())

	var unsupported *UnsupportedError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, "plan9", unsupported.OS)
}

func TestRequiredFiles_Darwin(t *testing.T) {
	files, err := RequiredFiles("darwin")

	require.NoError(t, err)
	require.Equal(t, core.RequiredFiles{
		{Key: "VULKAN_LIB", FileName: "libvulkan.1.dylib"},
		{Key: "MOLTENVK_ICD", FileName: "MoltenVK_icd.json"},
		{Key: "EXPLICIT_LAYER", FileName: "explicit_layer.d"},
	}, files)
}

func TestRequiredFiles_AllTablesValid(t *testing.T) {
	for _, goos := range Supported() {
		files, err := RequiredFiles(goos)
		require.NoError(t, err, goos)
		require.NotEmpty(t, files, goos)
		require.NoError(t, files.Validate(), goos)
	}
}

func TestRequiredFiles_ReturnsCopy(t *testing.T) {
	p, err := DetectFor("linux", "amd64")
	require.NoError(t, err)

	files := p.RequiredFiles()
	files[0].FileName = "changed"

	require.Equal(t, "libvulkan.so.1", p.RequiredFiles()[0].FileName)
}
