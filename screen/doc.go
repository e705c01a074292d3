/*
Package screen provides the surfaces a chart renders its frames to.

[Terminal] clears the whole screen before each frame, whereas [InPlace] only
overwrites the previous frame, courtesy of [gosuri/uilive].

[gosuri/uilive]: https://github.com/gosuri/uilive
*/
package screen
