// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/logger"
)

// reloadFunc - apply the parts of a changed configuration that can
// change while running
type reloadFunc func(*Configuration) error

// configWatcher - re-read the configuration file when it changes
//
// the directory is watched rather than the file so that editors that
// replace the file are still seen
type configWatcher struct {
	log       *logger.L
	fileName  string
	variables map[string]string
	watcher   *fsnotify.Watcher
	reload    reloadFunc
}

func newConfigWatcher(log *logger.L, fileName string, variables map[string]string, reload reloadFunc) (*configWatcher, error) {
	fileName, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	err = watcher.Add(filepath.Dir(fileName))
	if nil != err {
		_ = watcher.Close()
		return nil, err
	}

	return &configWatcher{
		log:       log,
		fileName:  fileName,
		variables: variables,
		watcher:   watcher,
		reload:    reload,
	}, nil
}

func (w *configWatcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	defer w.watcher.Close()

	log.Infof("watching: %q", w.fileName)
loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Clean(event.Name) != w.fileName {
				continue loop
			}
			if !isChange(event) {
				continue loop
			}
			log.Debugf("file event: %v", event)
			w.refresh()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)
		}
	}
	log.Info("stopped")
}

func (w *configWatcher) refresh() {
	conf, err := getConfiguration(w.fileName, w.variables)
	if nil != err {
		w.log.Errorf("failed to read configuration from: %q  error: %s", w.fileName, err)
		return
	}
	err = w.reload(conf)
	if nil != err {
		w.log.Errorf("reload configuration error: %s", err)
		return
	}
	w.log.Info("configuration reloaded")
}

func isChange(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}
