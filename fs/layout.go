package fs

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/causelist"
)

// DateLayout is the date format used in output folder and manifest names.
const DateLayout = "2006-01-02"

// SourceFolderName converts a page URL into a single folder name.
// Example: https://x.test/district/causelist/ → x.test_district_causelist
func SourceFolderName(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", causelist.Errorf(causelist.EINVALID, "invalid page URL %q: %v", pageURL, err)
	}
	if u.Host == "" {
		return "", causelist.Errorf(causelist.EINVALID, "page URL must be absolute: %q", pageURL)
	}
	return strings.Trim(strings.ReplaceAll(u.Host+u.Path, "/", "_"), "_"), nil
}

// OutputDir returns <base>/<source folder>/<date> for a harvested page.
func OutputDir(base, pageURL, date string) (string, error) {
	name, err := SourceFolderName(pageURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, name, date), nil
}

// ManifestPath returns the manifest location inside a run folder.
func ManifestPath(dir, date string) string {
	return filepath.Join(dir, "result_"+date+".json")
}

// ReportPaths returns the default JSON report and CSV summary locations
// for a query searched within folder.
func ReportPaths(folder, query string) (jsonPath, csvPath string) {
	slug := strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(query)
	return filepath.Join(folder, "search_results_"+slug+".json"),
		filepath.Join(folder, "search_summary_"+slug+".csv")
}

// ListDocuments returns the PDF files directly inside folder, sorted by name.
func ListDocuments(folder string) ([]string, error) {
	info, err := os.Stat(folder)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, causelist.Errorf(causelist.EINVALID, "folder not found: %s", folder)
	} else if err != nil {
		return nil, causelist.Errorf(causelist.EINVALID, "folder unreadable: %s: %v", folder, err)
	}
	if !info.IsDir() {
		return nil, causelist.Errorf(causelist.EINVALID, "not a folder: %s", folder)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, causelist.Errorf(causelist.EINVALID, "folder unreadable: %s: %v", folder, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), causelist.DocumentExtension) {
			continue
		}
		paths = append(paths, filepath.Join(folder, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
