// Package mount exposes a portfolio tree as a read-only FUSE filesystem.
//
// Directories become directories, in the tree's declared order. Files become
// regular files holding their lines joined by newlines, with a trailing newline.
package mount

import (
	"context"
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"go.uber.org/zap"

	"termfolio/internal/logging"
	"termfolio/internal/vfs"
)

// Options tunes how nodes report themselves to the kernel.
type Options struct {
	// StartTime is used for file/directory timestamps. If zero, time.Now() is used.
	StartTime time.Time

	// CacheTimeout sets the kernel cache timeout for entry/attr lookups.
	// The tree never changes once built, so a long timeout is safe.
	CacheTimeout time.Duration
}

func (o *Options) startTime() time.Time {
	if o == nil || o.StartTime.IsZero() {
		return time.Now()
	}
	return o.StartTime
}

func (o *Options) cacheTimeout() time.Duration {
	if o == nil {
		return 0
	}
	return o.CacheTimeout
}

// NewRoot returns the root node for tree.
func NewRoot(tree *vfs.Tree, opts *Options) fs.InodeEmbedder {
	if opts == nil {
		opts = &Options{}
	}
	if opts.StartTime.IsZero() {
		opts.StartTime = time.Now()
	}
	return &dirNode{tree: tree, path: vfs.Root, opts: opts}
}

// Serve mounts tree at mountpoint and blocks until ctx is done or the
// filesystem is unmounted externally.
func Serve(ctx context.Context, mountpoint string, tree *vfs.Tree, debug bool) error {
	log := logging.Get(logging.CategoryMount)

	opts := &fs.Options{}
	opts.Debug = debug
	opts.FsName = "termfolio"
	opts.Name = "termfolio"

	root := NewRoot(tree, &Options{CacheTimeout: time.Hour})
	srv, err := fs.Mount(mountpoint, root, opts)
	if err != nil {
		return fmt.Errorf("mount %s: %w", mountpoint, err)
	}
	log.Info("mounted", zap.String("mountpoint", mountpoint), zap.Int("nodes", tree.Len()))

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			if err := srv.Unmount(); err != nil {
				log.Warn("unmount failed", zap.Error(err))
			}
		case <-done:
		}
	}()

	srv.Wait()
	close(done)
	log.Info("unmounted", zap.String("mountpoint", mountpoint))
	return nil
}

// setEntryCache sets entry and attr cache timeouts on an EntryOut if configured.
func setEntryCache(out *fuse.EntryOut, child fs.InodeEmbedder, opts *Options) {
	timeout := opts.cacheTimeout()
	if timeout <= 0 {
		return
	}
	out.SetEntryTimeout(timeout)
	out.SetAttrTimeout(timeout)
	switch c := child.(type) {
	case *dirNode:
		out.Attr.Mode = fuse.S_IFDIR | 0555
	case *fileNode:
		out.Attr.Mode = fuse.S_IFREG | 0444
		out.Attr.Size = uint64(len(c.data))
	}
	setTimestamps(&out.Attr, opts.startTime())
}

// setTimestamps sets atime, mtime, and ctime on the attribute.
func setTimestamps(attr *fuse.Attr, t time.Time) {
	attr.Atime = uint64(t.Unix())
	attr.Atimensec = uint32(t.Nanosecond())
	attr.Mtime = uint64(t.Unix())
	attr.Mtimensec = uint32(t.Nanosecond())
	attr.Ctime = uint64(t.Unix())
	attr.Ctimensec = uint32(t.Nanosecond())
}

// --- dirNode: tree directory ---

type dirNode struct {
	fs.Inode
	tree *vfs.Tree
	path string
	opts *Options
}

var _ = (fs.NodeLookuper)((*dirNode)(nil))
var _ = (fs.NodeReaddirer)((*dirNode)(nil))
var _ = (fs.NodeGetattrer)((*dirNode)(nil))

func (n *dirNode) child(name string) (fs.InodeEmbedder, bool) {
	node, ok := n.tree.Lookup(vfs.Join(n.path, name))
	if !ok {
		return nil, false
	}
	if node.IsDir() {
		return &dirNode{tree: n.tree, path: node.Path, opts: n.opts}, true
	}
	return newFileNode(node, n.opts), true
}

func (n *dirNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	child, ok := n.child(name)
	if !ok {
		return nil, syscall.ENOENT
	}
	setEntryCache(out, child, n.opts)
	return n.NewInode(ctx, child, fs.StableAttr{Mode: nodeMode(child)}), 0
}

func (n *dirNode) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	children := n.tree.Children(n.path)
	entries := make([]fuse.DirEntry, 0, len(children))
	for _, c := range children {
		mode := uint32(fuse.S_IFREG)
		if c.IsDir() {
			mode = fuse.S_IFDIR
		}
		entries = append(entries, fuse.DirEntry{Name: c.Name, Mode: mode})
	}
	return fs.NewListDirStream(entries), 0
}

func (n *dirNode) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = fuse.S_IFDIR | 0555
	setTimestamps(&out.Attr, n.opts.startTime())
	if t := n.opts.cacheTimeout(); t > 0 {
		out.SetTimeout(t)
	}
	return 0
}

// --- fileNode: tree file ---

type fileNode struct {
	fs.Inode
	data []byte
	opts *Options
}

var _ = (fs.NodeOpener)((*fileNode)(nil))
var _ = (fs.NodeReader)((*fileNode)(nil))
var _ = (fs.NodeGetattrer)((*fileNode)(nil))

func newFileNode(node *vfs.Node, opts *Options) *fileNode {
	return &fileNode{data: []byte(strings.Join(node.Lines, "\n") + "\n"), opts: opts}
}

func (n *fileNode) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0 {
		return nil, 0, syscall.EROFS
	}
	return nil, fuse.FOPEN_KEEP_CACHE, 0
}

func (n *fileNode) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	return fuse.ReadResultData(readAt(n.data, dest, off)), 0
}

func (n *fileNode) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = fuse.S_IFREG | 0444
	out.Size = uint64(len(n.data))
	setTimestamps(&out.Attr, n.opts.startTime())
	if t := n.opts.cacheTimeout(); t > 0 {
		out.SetTimeout(t)
	}
	return 0
}

// --- helpers ---

// nodeMode returns the FUSE mode for a node (directory or regular file).
func nodeMode(node fs.InodeEmbedder) uint32 {
	if _, ok := node.(*dirNode); ok {
		return fuse.S_IFDIR
	}
	return fuse.S_IFREG
}

// readAt returns the portion of data that fits in dest starting at offset off.
func readAt(data, dest []byte, off int64) []byte {
	if off >= int64(len(data)) {
		return nil
	}
	n := copy(dest, data[off:])
	return dest[:n]
}
