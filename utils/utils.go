package utils

import (
	"crypto/rand"
	"log"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/hashicorp/go-multierror"
	"github.com/parnurzeal/gorequest"
	"golang.org/x/xerrors"
)

func CacheDir() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	dir := filepath.Join(cacheDir, "cvrf-eval")
	return dir
}

// GenWorkers generate workders
func GenWorkers(num, wait int) chan<- func() {
	tasks := make(chan func())
	for i := 0; i < num; i++ {
		go func() {
			for f := range tasks {
				f()
				time.Sleep(time.Duration(wait) * time.Second)
			}
		}()
	}
	return tasks
}

// TrimSpaceNewline deletes space character and newline character(CR/LF)
func TrimSpaceNewline(str string) string {
	str = strings.TrimSpace(str)
	return strings.Trim(str, "\r\n")
}

// FetchURL returns HTTP response body with retry
func FetchURL(url string, retry int) (res []byte, err error) {
	for i := 0; i <= retry; i++ {
		if i > 0 {
			wait := math.Pow(float64(i), 2) + float64(randInt()%10)
			log.Printf("retry after %f seconds\n", wait)
			time.Sleep(time.Duration(time.Duration(wait) * time.Second))
		}
		res, err = fetchURL(url)
		if err == nil {
			return res, nil
		}
	}
	return nil, xerrors.Errorf("failed to fetch URL: %w", err)
}

func randInt() int {
	seed, _ := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	return int(seed.Int64())
}

func fetchURL(url string) ([]byte, error) {
	resp, body, errs := gorequest.New().Get(url).Type("text").EndBytes()
	if len(errs) > 0 {
		return nil, xerrors.Errorf("HTTP error. url: %s, err: %w", url, errs[0])
	}
	if resp.StatusCode != 200 {
		return nil, xerrors.Errorf("HTTP error. status code: %d, url: %s", resp.StatusCode, url)
	}
	return body, nil
}

// FetchConcurrently fetches urls with a pool of workers. Responses are
// returned in the order of urls; a failed URL leaves a nil entry and its
// error is reported in the returned error.
func FetchConcurrently(urls []string, concurrency, wait, retry int) ([][]byte, error) {
	type result struct {
		index int
		body  []byte
		err   error
	}
	// workers may still send after a timeout, so resChan is never closed
	resChan := make(chan result, len(urls))
	if concurrency < 1 {
		concurrency = 1
	}

	bar := pb.StartNew(len(urls))
	tasks := GenWorkers(concurrency, wait)
	for i, url := range urls {
		i, url := i, url
		tasks <- func() {
			body, err := FetchURL(url, retry)
			resChan <- result{index: i, body: body, err: err}
		}
	}
	close(tasks)

	responses := make([][]byte, len(urls))
	var errs *multierror.Error
	timeout := time.After(10 * 60 * time.Second)
	for range urls {
		select {
		case res := <-resChan:
			if res.err != nil {
				errs = multierror.Append(errs, res.err)
			} else {
				responses[res.index] = res.body
			}
			bar.Increment()
		case <-timeout:
			return nil, xerrors.New("Timeout Fetching URL")
		}
	}
	bar.Finish()
	return responses, errs.ErrorOrNil()
}

func LookupEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultValue
}

func IsJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
